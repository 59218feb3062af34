package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	pkgerrors "github.com/yungbote/learnfast-backend/internal/pkg/errors"
)

func newResolverFixture(t *testing.T) (*fakeGraphStore, *fakeChunkRepo, *fakeProgressRepo, PathResolverService) {
	t.Helper()
	store := newFakeGraphStore()
	chunks := newFakeChunkRepo()
	progress := newFakeProgressRepo()
	resolver := NewPathResolverService(nil, testLogger(t), store, chunks, progress)
	return store, chunks, progress, resolver
}

func TestEstimateLearningTime(t *testing.T) {
	_, chunks, _, resolver := newResolverFixture(t)
	chunks.counts["a"] = 2
	chunks.counts["b"] = 3

	got, err := resolver.EstimateLearningTime(context.Background(), []string{"A", "b"})
	if err != nil {
		t.Fatalf("EstimateLearningTime: %v", err)
	}
	want := 5 * MinutesPerChunk
	if got != want {
		t.Fatalf("EstimateLearningTime=%d, want %d", got, want)
	}

	// Concepts without content cost nothing.
	got, err = resolver.EstimateLearningTime(context.Background(), []string{"unknown"})
	if err != nil {
		t.Fatalf("EstimateLearningTime unknown: %v", err)
	}
	if got != 0 {
		t.Fatalf("EstimateLearningTime unknown=%d, want 0", got)
	}

	if _, err := resolver.EstimateLearningTime(context.Background(), nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("empty concept list err=%v, want ErrInvalidArgument", err)
	}
}

func TestPrunePathByTime(t *testing.T) {
	cases := []struct {
		name       string
		counts     map[string]int
		path       []string
		limit      int
		wantPath   []string
		wantTime   int
		wantErrArg bool
	}{
		{
			name:     "middle_cut",
			counts:   map[string]int{"c0": 5, "c1": 5, "c2": 5}, // 10 minutes each
			path:     []string{"c0", "c1", "c2"},
			limit:    25,
			wantPath: []string{"c0", "c1"},
			wantTime: 20,
		},
		{
			name:     "everything_fits",
			counts:   map[string]int{"c0": 5, "c1": 5, "c2": 5},
			path:     []string{"c0", "c1", "c2"},
			limit:    30,
			wantPath: []string{"c0", "c1", "c2"},
			wantTime: 30,
		},
		{
			name:     "first_concept_exceeds_limit",
			counts:   map[string]int{"c0": 20},
			path:     []string{"c0"},
			limit:    5,
			wantPath: []string{},
			wantTime: 0,
		},
		{
			name:     "zero_limit",
			counts:   map[string]int{"c0": 1},
			path:     []string{"c0"},
			limit:    0,
			wantPath: []string{},
			wantTime: 0,
		},
		{
			name:     "empty_path",
			counts:   map[string]int{},
			path:     []string{},
			limit:    10,
			wantPath: []string{},
			wantTime: 0,
		},
		{
			name:       "negative_limit_rejected",
			counts:     map[string]int{},
			path:       []string{"c0"},
			limit:      -1,
			wantErrArg: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, chunks, _, resolver := newResolverFixture(t)
			for concept, count := range tc.counts {
				chunks.counts[concept] = count
			}

			pruned, cumulative, err := resolver.PrunePathByTime(context.Background(), tc.path, tc.limit)
			if tc.wantErrArg {
				if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
					t.Fatalf("err=%v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PrunePathByTime: %v", err)
			}
			if !reflect.DeepEqual(pruned, tc.wantPath) {
				t.Fatalf("pruned=%v, want %v", pruned, tc.wantPath)
			}
			if cumulative != tc.wantTime {
				t.Fatalf("cumulative=%d, want %d", cumulative, tc.wantTime)
			}
		})
	}
}

func TestPrunePathByTimeInvariants(t *testing.T) {
	// Prefix, never-exceed, and maximality must hold across a spread of
	// per-concept costs and limits.
	paths := [][]int{
		{1},
		{3, 3, 3},
		{10, 1, 1, 1},
		{2, 8, 2, 8, 2},
		{7, 7, 7, 7, 7, 7},
	}
	limits := []int{0, 1, 5, 10, 14, 20, 100}

	for _, chunkCounts := range paths {
		for _, limit := range limits {
			_, chunks, _, resolver := newResolverFixture(t)
			path := make([]string, len(chunkCounts))
			costs := make([]int, len(chunkCounts))
			for i, count := range chunkCounts {
				name := string(rune('a' + i))
				path[i] = name
				chunks.counts[name] = count
				costs[i] = count * MinutesPerChunk
			}

			pruned, cumulative, err := resolver.PrunePathByTime(context.Background(), path, limit)
			if err != nil {
				t.Fatalf("limit %d: %v", limit, err)
			}
			if cumulative > limit {
				t.Fatalf("limit %d: cumulative %d exceeds limit", limit, cumulative)
			}
			if !reflect.DeepEqual(path[:len(pruned)], pruned) {
				t.Fatalf("limit %d: %v is not a prefix of %v", limit, pruned, path)
			}
			if len(pruned) < len(path) {
				next := costs[len(pruned)]
				if cumulative+next <= limit {
					t.Fatalf("limit %d: under-pruned, next concept (cost %d) still fits %d", limit, next, cumulative)
				}
			}
		}
	}
}

func TestResolvePath(t *testing.T) {
	ctx := context.Background()

	t.Run("full_chain_within_budget", func(t *testing.T) {
		store, chunks, _, resolver := newResolverFixture(t)
		store.addEdge("A", "B", 1.0)
		store.addEdge("B", "C", 1.0)
		for _, c := range []string{"a", "b", "c"} {
			chunks.counts[c] = 5 // 10 minutes per concept
		}

		path, err := resolver.ResolvePath(ctx, "u1", "C", 1000)
		if err != nil {
			t.Fatalf("ResolvePath: %v", err)
		}
		if path.Pruned {
			t.Fatalf("path should not be pruned with a large budget")
		}
		if !reflect.DeepEqual(path.Concepts, []string{"a", "b", "c"}) {
			t.Fatalf("concepts=%v, want [a b c]", path.Concepts)
		}
		if path.TargetConcept != "c" {
			t.Fatalf("target=%q, want c", path.TargetConcept)
		}
		if path.EstimatedTimeMinutes != 30 {
			t.Fatalf("estimated=%d, want 30", path.EstimatedTimeMinutes)
		}
	})

	t.Run("pruned_keeps_target_name", func(t *testing.T) {
		store, chunks, _, resolver := newResolverFixture(t)
		store.addEdge("a", "b", 1.0)
		store.addEdge("b", "c", 1.0)
		for _, c := range []string{"a", "b", "c"} {
			chunks.counts[c] = 5
		}

		path, err := resolver.ResolvePath(ctx, "u1", "c", 25)
		if err != nil {
			t.Fatalf("ResolvePath: %v", err)
		}
		if !path.Pruned {
			t.Fatalf("path should be pruned at budget 25")
		}
		if !reflect.DeepEqual(path.Concepts, []string{"a", "b"}) {
			t.Fatalf("concepts=%v, want [a b]", path.Concepts)
		}
		if path.EstimatedTimeMinutes != 20 {
			t.Fatalf("estimated=%d, want 20", path.EstimatedTimeMinutes)
		}
		if path.TargetConcept != "c" {
			t.Fatalf("target=%q must survive pruning", path.TargetConcept)
		}
	})

	t.Run("completed_concepts_drop_out", func(t *testing.T) {
		store, chunks, progress, resolver := newResolverFixture(t)
		store.addEdge("a", "b", 1.0)
		store.addEdge("b", "c", 1.0)
		for _, c := range []string{"a", "b", "c"} {
			chunks.counts[c] = 5
		}
		if err := progress.MarkCompleted(ctx, nil, "u1", "a"); err != nil {
			t.Fatalf("mark completed: %v", err)
		}

		path, err := resolver.ResolvePath(ctx, "u1", "c", 1000)
		if err != nil {
			t.Fatalf("ResolvePath: %v", err)
		}
		if !reflect.DeepEqual(path.Concepts, []string{"b", "c"}) {
			t.Fatalf("concepts=%v, want [b c]", path.Concepts)
		}
	})

	t.Run("everything_completed_yields_empty_unpruned_path", func(t *testing.T) {
		store, _, progress, resolver := newResolverFixture(t)
		store.addEdge("a", "b", 1.0)
		for _, c := range []string{"a", "b"} {
			if err := progress.MarkCompleted(ctx, nil, "u1", c); err != nil {
				t.Fatalf("mark completed: %v", err)
			}
		}

		path, err := resolver.ResolvePath(ctx, "u1", "b", 60)
		if err != nil {
			t.Fatalf("ResolvePath: %v", err)
		}
		if path.Pruned || len(path.Concepts) != 0 || path.EstimatedTimeMinutes != 0 {
			t.Fatalf("got %+v, want empty unpruned path", path)
		}
	})

	t.Run("unknown_target_is_not_found", func(t *testing.T) {
		_, _, _, resolver := newResolverFixture(t)
		_, err := resolver.ResolvePath(ctx, "u1", "ghost", 60)
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	t.Run("cycle_only_target_is_unreachable", func(t *testing.T) {
		store, _, _, resolver := newResolverFixture(t)
		// x and y form a two-node cycle: no root reaches them.
		store.addEdge("x", "y", 1.0)
		store.addEdge("y", "x", 1.0)

		_, err := resolver.ResolvePath(ctx, "u1", "x", 60)
		if !errors.Is(err, pkgerrors.ErrUnreachable) {
			t.Fatalf("err=%v, want ErrUnreachable", err)
		}
	})

	t.Run("negative_budget_rejected", func(t *testing.T) {
		store, _, _, resolver := newResolverFixture(t)
		store.addConcept("a")
		_, err := resolver.ResolvePath(ctx, "u1", "a", -5)
		if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("err=%v, want ErrInvalidArgument", err)
		}
	})
}
