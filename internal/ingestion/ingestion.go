package ingestion

import (
	"context"
	"fmt"

	"github.com/yungbote/learnfast-backend/internal/graph"
	"github.com/yungbote/learnfast-backend/internal/logger"
	pkgerrors "github.com/yungbote/learnfast-backend/internal/pkg/errors"
	"github.com/yungbote/learnfast-backend/internal/types"
)

// GraphMutation is a batch of graph writes produced by the extraction
// collaborator: new concept nodes and prerequisite links distilled from one
// source document.
type GraphMutation struct {
	SourceDocument string                   `json:"source_document,omitempty"`
	Concepts       []types.ConceptNode      `json:"concepts"`
	Prerequisites  []types.PrerequisiteLink `json:"prerequisites"`
}

// Extractor is the language-model extraction collaborator. This core only
// consumes its output; implementations live outside this module.
type Extractor interface {
	ExtractConcepts(ctx context.Context, document string) (*GraphMutation, error)
}

// Pipeline applies extraction output to the concept graph store.
type Pipeline interface {
	Apply(ctx context.Context, mutation *GraphMutation) error
}

type pipeline struct {
	log   *logger.Logger
	store graph.GraphStore
}

func NewPipeline(baseLog *logger.Logger, store graph.GraphStore) Pipeline {
	return &pipeline{
		log:   baseLog.With("service", "IngestionPipeline"),
		store: store,
	}
}

// Apply writes the concept batch in one call, then upserts each link. Links
// are applied after nodes so endpoints exist. A failed link does not roll
// back earlier writes; the upserts make retries safe.
func (p *pipeline) Apply(ctx context.Context, mutation *GraphMutation) error {
	if mutation == nil {
		return fmt.Errorf("%w: nil mutation", pkgerrors.ErrInvalidArgument)
	}
	if len(mutation.Concepts) == 0 && len(mutation.Prerequisites) == 0 {
		return fmt.Errorf("%w: empty mutation", pkgerrors.ErrInvalidArgument)
	}

	if err := p.store.StoreConceptsBatch(ctx, mutation.Concepts); err != nil {
		return fmt.Errorf("apply concepts: %w", err)
	}
	for _, link := range mutation.Prerequisites {
		if err := p.store.StorePrerequisiteRelationship(ctx, link); err != nil {
			return fmt.Errorf("apply prerequisite: %w", err)
		}
	}
	p.log.Info("graph mutation applied",
		"source", mutation.SourceDocument,
		"concepts", len(mutation.Concepts),
		"prerequisites", len(mutation.Prerequisites))
	return nil
}
