package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/learnfast-backend/internal/graph"
	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	pkgerrors "github.com/yungbote/learnfast-backend/internal/pkg/errors"
	"github.com/yungbote/learnfast-backend/internal/repos"
	"github.com/yungbote/learnfast-backend/internal/types"
)

// MinutesPerChunk converts a content-unit count into estimated study minutes.
const MinutesPerChunk = 2

// PathResolverService computes a time-budgeted prerequisite chain toward a
// target concept.
type PathResolverService interface {
	EstimateLearningTime(ctx context.Context, concepts []string) (int, error)
	PrunePathByTime(ctx context.Context, path []string, timeLimitMinutes int) ([]string, int, error)
	ResolvePath(ctx context.Context, userID, targetConcept string, timeBudgetMinutes int) (*types.LearningPath, error)
}

type pathResolverService struct {
	db       *gorm.DB
	log      *logger.Logger
	store    graph.GraphStore
	chunks   repos.LearningChunkRepo
	progress repos.UserProgressRepo
}

func NewPathResolverService(
	db *gorm.DB,
	baseLog *logger.Logger,
	store graph.GraphStore,
	chunks repos.LearningChunkRepo,
	progress repos.UserProgressRepo,
) PathResolverService {
	return &pathResolverService{
		db:       db,
		log:      baseLog.With("service", "PathResolverService"),
		store:    store,
		chunks:   chunks,
		progress: progress,
	}
}

// EstimateLearningTime is total_content_units(concepts) * MinutesPerChunk,
// with the unit count fetched in a single batched query.
func (s *pathResolverService) EstimateLearningTime(ctx context.Context, concepts []string) (int, error) {
	normalized := normalization.ConceptNames(concepts)
	if len(normalized) == 0 {
		return 0, fmt.Errorf("%w: empty concept list", pkgerrors.ErrInvalidArgument)
	}
	count, err := s.chunks.CountByConcepts(ctx, nil, normalized)
	if err != nil {
		s.log.Warn("EstimateLearningTime: chunk count failed", "error", err)
		return 0, err
	}
	return int(count) * MinutesPerChunk, nil
}

// PrunePathByTime walks the path from its start accumulating per-concept
// estimates and stops before the first concept that would push the total past
// the limit. The result is always a prefix, its cost never exceeds the limit,
// and the prefix is maximal: if anything was cut, adding the next concept
// would overflow. A first concept that alone exceeds the limit yields an
// empty path at cost zero.
func (s *pathResolverService) PrunePathByTime(ctx context.Context, path []string, timeLimitMinutes int) ([]string, int, error) {
	if timeLimitMinutes < 0 {
		return nil, 0, fmt.Errorf("%w: negative time limit", pkgerrors.ErrInvalidArgument)
	}

	pruned := []string{}
	cumulative := 0
	for _, concept := range path {
		minutes, err := s.EstimateLearningTime(ctx, []string{concept})
		if err != nil {
			return nil, 0, err
		}
		if cumulative+minutes > timeLimitMinutes {
			break
		}
		cumulative += minutes
		pruned = append(pruned, concept)
	}
	return pruned, cumulative, nil
}

// ResolvePath finds the minimal prerequisite chain from a root to the target,
// drops concepts the user already completed, and fits the remainder to the
// time budget. The returned TargetConcept is always the normalized target
// name; Pruned tells the caller whether the chain was cut to fit.
func (s *pathResolverService) ResolvePath(ctx context.Context, userID, targetConcept string, timeBudgetMinutes int) (*types.LearningPath, error) {
	target := normalization.ConceptName(targetConcept)
	if userID == "" || target == "" {
		return nil, fmt.Errorf("%w: user id and target concept required", pkgerrors.ErrInvalidArgument)
	}
	if timeBudgetMinutes < 0 {
		return nil, fmt.Errorf("%w: negative time budget", pkgerrors.ErrInvalidArgument)
	}

	exists, err := s.store.ConceptExists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("target concept %q: %w", target, pkgerrors.ErrNotFound)
	}

	chain, err := s.store.AncestorChain(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		// Exists but no root reaches it within the hop cap.
		return nil, fmt.Errorf("target concept %q: %w", target, pkgerrors.ErrUnreachable)
	}

	state, err := s.progress.GetState(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]struct{}, len(state.CompletedConcepts))
	for _, c := range state.CompletedConcepts {
		completed[c] = struct{}{}
	}

	// The chain starts at the user's frontier: completed concepts drop out,
	// order is preserved.
	remaining := make([]string, 0, len(chain))
	for _, c := range chain {
		if _, done := completed[c]; done {
			continue
		}
		remaining = append(remaining, c)
	}
	if len(remaining) == 0 {
		return &types.LearningPath{
			Concepts:             []string{},
			EstimatedTimeMinutes: 0,
			TargetConcept:        target,
			Pruned:               false,
		}, nil
	}

	total, err := s.EstimateLearningTime(ctx, remaining)
	if err != nil {
		return nil, err
	}
	if total <= timeBudgetMinutes {
		return &types.LearningPath{
			Concepts:             remaining,
			EstimatedTimeMinutes: total,
			TargetConcept:        target,
			Pruned:               false,
		}, nil
	}

	prunedPath, cumulative, err := s.PrunePathByTime(ctx, remaining, timeBudgetMinutes)
	if err != nil {
		return nil, err
	}
	s.log.Debug("ResolvePath: chain pruned to budget",
		"target", target, "full_len", len(remaining), "pruned_len", len(prunedPath),
		"budget_minutes", timeBudgetMinutes, "pruned_minutes", cumulative)
	return &types.LearningPath{
		Concepts:             prunedPath,
		EstimatedTimeMinutes: cumulative,
		TargetConcept:        target,
		Pruned:               true,
	}, nil
}
