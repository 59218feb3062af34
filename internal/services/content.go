package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	"github.com/yungbote/learnfast-backend/internal/repos"
	"github.com/yungbote/learnfast-backend/internal/types"
)

// chunkFetchConcurrency bounds parallel chunk queries when assembling a
// lesson for a multi-concept path.
const chunkFetchConcurrency = 4

// ContentService retrieves learning chunks and renders lesson text for a
// resolved path. It consumes concept lists produced by the path resolver.
type ContentService interface {
	RetrieveChunksByConcept(ctx context.Context, concept string) ([]*types.LearningChunk, error)
	GetLessonContent(ctx context.Context, pathConcepts []string) (string, error)
}

type contentService struct {
	db     *gorm.DB
	log    *logger.Logger
	chunks repos.LearningChunkRepo
}

func NewContentService(db *gorm.DB, baseLog *logger.Logger, chunks repos.LearningChunkRepo) ContentService {
	return &contentService{
		db:     db,
		log:    baseLog.With("service", "ContentService"),
		chunks: chunks,
	}
}

func (s *contentService) RetrieveChunksByConcept(ctx context.Context, concept string) ([]*types.LearningChunk, error) {
	normalized := normalization.ConceptName(concept)
	if normalized == "" {
		return []*types.LearningChunk{}, nil
	}
	chunks, err := s.chunks.GetByConcept(ctx, nil, normalized)
	if err != nil {
		s.log.Warn("RetrieveChunksByConcept failed", "error", err, "concept", normalized)
		return nil, err
	}
	return chunks, nil
}

// GetLessonContent renders a Markdown lesson for an ordered concept path.
// Chunk retrieval runs concurrently; section order follows the input path.
func (s *contentService) GetLessonContent(ctx context.Context, pathConcepts []string) (string, error) {
	concepts := normalization.ConceptNames(pathConcepts)
	if len(concepts) == 0 {
		return "", nil
	}

	chunksByIndex := make([][]*types.LearningChunk, len(concepts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(chunkFetchConcurrency)
	for i, concept := range concepts {
		g.Go(func() error {
			chunks, err := s.chunks.GetByConcept(gctx, nil, concept)
			if err != nil {
				return fmt.Errorf("retrieve chunks for %q: %w", concept, err)
			}
			chunksByIndex[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var lesson strings.Builder
	lesson.WriteString("# Personalized Learning Path\n\n")
	lesson.WriteString(fmt.Sprintf("**Target Goal**: %s\n\n", titleCase(concepts[len(concepts)-1])))
	lesson.WriteString("---\n\n")

	for i, concept := range concepts {
		lesson.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, titleCase(concept)))
		chunks := chunksByIndex[i]
		if len(chunks) == 0 {
			lesson.WriteString("*No content available for this concept.*\n\n")
			continue
		}
		for _, chunk := range chunks {
			lesson.WriteString(chunk.Content)
			lesson.WriteString("\n\n")
		}
		lesson.WriteString("---\n\n")
	}
	return lesson.String(), nil
}

func titleCase(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
