package main

import (
	"context"
	"fmt"
	"os"
	"time"

	redisclient "github.com/yungbote/learnfast-backend/internal/clients/redis"
	"github.com/yungbote/learnfast-backend/internal/db"
	"github.com/yungbote/learnfast-backend/internal/graph"
	"github.com/yungbote/learnfast-backend/internal/handlers"
	"github.com/yungbote/learnfast-backend/internal/ingestion"
	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/platform/neo4jdb"
	"github.com/yungbote/learnfast-backend/internal/repos"
	"github.com/yungbote/learnfast-backend/internal/server"
	"github.com/yungbote/learnfast-backend/internal/services"
	"github.com/yungbote/learnfast-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres (content chunks + user progress)
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Neo4j (concept graph); a missing NEO4J_URI degrades to an empty graph
	neo4jClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Neo4j init failed", "error", err)
		os.Exit(1)
	}
	if neo4jClient != nil {
		defer neo4jClient.Close(context.Background())
	}
	graphStore := graph.NewNeo4jGraphStore(neo4jClient, log)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := graphStore.InitializeConstraints(ctx); err != nil {
		log.Warn("Graph constraint init failed (continuing)", "error", err)
	}
	cancel()

	// Redis progress bus (optional)
	progressBus, err := redisclient.NewProgressBus(log)
	if err != nil {
		log.Warn("Redis progress bus init failed (continuing without)", "error", err)
		progressBus = nil
	}
	if progressBus != nil {
		defer progressBus.Close()
	}

	// Repos
	log.Info("Setting up repos...")
	chunkRepo := repos.NewLearningChunkRepo(thePG, log)
	progressRepo := repos.NewUserProgressRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	navigationService := services.NewNavigationService(log, graphStore, progressRepo)
	pathResolverService := services.NewPathResolverService(thePG, log, graphStore, chunkRepo, progressRepo)
	progressService := services.NewProgressService(thePG, log, progressRepo, progressBus)
	contentService := services.NewContentService(thePG, log, chunkRepo)
	ingestionPipeline := ingestion.NewPipeline(log, graphStore)

	// Handlers
	log.Info("Setting up handlers...")
	healthHandler := handlers.NewHealthHandler()
	conceptHandler := handlers.NewConceptHandler(navigationService)
	progressHandler := handlers.NewProgressHandler(progressService)
	pathHandler := handlers.NewPathHandler(pathResolverService, contentService)
	graphHandler := handlers.NewGraphHandler(ingestionPipeline)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		HealthHandler:   healthHandler,
		ConceptHandler:  conceptHandler,
		ProgressHandler: progressHandler,
		PathHandler:     pathHandler,
		GraphHandler:    graphHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
