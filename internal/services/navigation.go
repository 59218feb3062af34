package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yungbote/learnfast-backend/internal/graph"
	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	pkgerrors "github.com/yungbote/learnfast-backend/internal/pkg/errors"
	"github.com/yungbote/learnfast-backend/internal/repos"
)

// NavigationService answers reachability questions over the prerequisite
// graph for a given user. It is stateless: every call reads the current
// graph and progress snapshots, so a completion is visible to the very next
// query.
type NavigationService interface {
	FindRootConcepts(ctx context.Context) ([]string, error)
	GetPathPreview(ctx context.Context, concept string, depth int) ([]string, error)
	ValidatePrerequisites(ctx context.Context, userID, concept string) (bool, error)
	GetUnlockedConcepts(ctx context.Context, userID string) ([]string, error)
}

type navigationService struct {
	log      *logger.Logger
	store    graph.GraphStore
	progress repos.UserProgressRepo
}

func NewNavigationService(baseLog *logger.Logger, store graph.GraphStore, progress repos.UserProgressRepo) NavigationService {
	return &navigationService{
		log:      baseLog.With("service", "NavigationService"),
		store:    store,
		progress: progress,
	}
}

// FindRootConcepts lists every concept with zero incoming prerequisite
// edges, isolated nodes included.
func (s *navigationService) FindRootConcepts(ctx context.Context) ([]string, error) {
	roots, err := s.store.RootConcepts(ctx)
	if err != nil {
		s.log.Warn("FindRootConcepts: graph query failed", "error", err)
		return nil, err
	}
	sort.Strings(roots)
	return roots, nil
}

// GetPathPreview follows a single forward chain from the start concept for at
// most depth hops, so the result holds at most depth+1 nodes. When a node has
// several outgoing edges the next hop is the highest-weight edge, ties broken
// by lexicographically smallest name. Nodes already on the walk are never
// revisited, which bounds the call on cyclic input.
func (s *navigationService) GetPathPreview(ctx context.Context, concept string, depth int) ([]string, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: negative depth", pkgerrors.ErrInvalidArgument)
	}
	start := normalization.ConceptName(concept)
	if start == "" {
		return nil, fmt.Errorf("%w: empty concept", pkgerrors.ErrInvalidArgument)
	}

	exists, err := s.store.ConceptExists(ctx, start)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("concept %q: %w", start, pkgerrors.ErrNotFound)
	}

	visited := map[string]struct{}{start: {}}
	path := []string{start}
	current := start

	for hop := 0; hop < depth; hop++ {
		succs, err := s.store.Successors(ctx, current)
		if err != nil {
			return nil, err
		}
		// Re-sort locally so the tie-break holds regardless of store order.
		sort.SliceStable(succs, func(i, j int) bool {
			if succs[i].Weight != succs[j].Weight {
				return succs[i].Weight > succs[j].Weight
			}
			return succs[i].Name < succs[j].Name
		})

		next := ""
		for _, succ := range succs {
			if _, seen := visited[succ.Name]; !seen {
				next = succ.Name
				break
			}
		}
		if next == "" {
			break
		}
		visited[next] = struct{}{}
		path = append(path, next)
		current = next
	}
	return path, nil
}

// ValidatePrerequisites reports whether every direct predecessor of the
// concept is completed for the user. A concept with no prerequisites is
// always valid. Evaluated fresh against store state on every call.
func (s *navigationService) ValidatePrerequisites(ctx context.Context, userID, concept string) (bool, error) {
	normalized := normalization.ConceptName(concept)
	if userID == "" || normalized == "" {
		return false, fmt.Errorf("%w: user id and concept required", pkgerrors.ErrInvalidArgument)
	}

	preds, err := s.store.Predecessors(ctx, normalized)
	if err != nil {
		return false, err
	}
	if len(preds) == 0 {
		return true, nil
	}

	state, err := s.progress.GetState(ctx, nil, userID)
	if err != nil {
		return false, err
	}
	completed := make(map[string]struct{}, len(state.CompletedConcepts))
	for _, c := range state.CompletedConcepts {
		completed[c] = struct{}{}
	}
	for _, p := range preds {
		if _, ok := completed[p]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// GetUnlockedConcepts returns every concept the user has not completed whose
// direct prerequisites are all completed.
func (s *navigationService) GetUnlockedConcepts(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}

	deps, err := s.store.ConceptDependencies(ctx)
	if err != nil {
		s.log.Warn("GetUnlockedConcepts: graph query failed", "error", err)
		return nil, err
	}
	state, err := s.progress.GetState(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]struct{}, len(state.CompletedConcepts))
	for _, c := range state.CompletedConcepts {
		completed[c] = struct{}{}
	}

	unlocked := []string{}
	for _, dep := range deps {
		if _, done := completed[dep.Name]; done {
			continue
		}
		satisfied := true
		for _, prereq := range dep.Prerequisites {
			if _, done := completed[prereq]; !done {
				satisfied = false
				break
			}
		}
		if satisfied {
			unlocked = append(unlocked, dep.Name)
		}
	}
	sort.Strings(unlocked)
	return unlocked, nil
}
