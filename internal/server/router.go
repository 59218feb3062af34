package server

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnfast-backend/internal/handlers"
	"github.com/yungbote/learnfast-backend/internal/middleware"
)

type RouterConfig struct {
	HealthHandler   *handlers.HealthHandler
	ConceptHandler  *handlers.ConceptHandler
	ProgressHandler *handlers.ProgressHandler
	PathHandler     *handlers.PathHandler
	GraphHandler    *handlers.GraphHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Concept navigation
		if cfg.ConceptHandler != nil {
			api.GET("/concepts/roots", cfg.ConceptHandler.GetRootConcepts)
			api.GET("/concepts/:name/preview", cfg.ConceptHandler.GetPathPreview)
			api.GET("/users/:user_id/unlocked", cfg.ConceptHandler.GetUnlockedConcepts)
			api.GET("/users/:user_id/concepts/:name/validate", cfg.ConceptHandler.ValidatePrerequisites)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.POST("/progress/start", cfg.ProgressHandler.Start)
			api.POST("/progress/complete", cfg.ProgressHandler.Complete)
			api.GET("/users/:user_id/progress", cfg.ProgressHandler.GetState)
		}

		// Learning paths
		if cfg.PathHandler != nil {
			api.POST("/learning/path", cfg.PathHandler.ResolvePath)
			api.POST("/learning/lesson", cfg.PathHandler.GetLesson)
		}

		// Graph ingestion
		if cfg.GraphHandler != nil {
			api.POST("/graph/sync", cfg.GraphHandler.Sync)
		}
	}

	return r
}
