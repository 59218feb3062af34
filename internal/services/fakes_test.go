package services

import (
	"context"
	"sort"
	"testing"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/learnfast-backend/internal/clients/redis"
	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	"github.com/yungbote/learnfast-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

// fakeGraphStore is an in-memory GraphStore used to exercise traversal logic
// without a Neo4j instance.
type fakeGraphStore struct {
	nodes map[string]bool
	// edges[source][target] = weight
	edges map[string]map[string]float64
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{
		nodes: map[string]bool{},
		edges: map[string]map[string]float64{},
	}
}

func (f *fakeGraphStore) addConcept(names ...string) {
	for _, n := range names {
		f.nodes[normalization.ConceptName(n)] = true
	}
}

func (f *fakeGraphStore) addEdge(source, target string, weight float64) {
	source = normalization.ConceptName(source)
	target = normalization.ConceptName(target)
	f.nodes[source] = true
	f.nodes[target] = true
	if f.edges[source] == nil {
		f.edges[source] = map[string]float64{}
	}
	if existing, ok := f.edges[source][target]; !ok || weight > existing {
		f.edges[source][target] = weight
	}
}

func (f *fakeGraphStore) InitializeConstraints(ctx context.Context) error { return nil }
func (f *fakeGraphStore) VerifyConstraints(ctx context.Context) (bool, error) {
	return true, nil
}

func (f *fakeGraphStore) StoreConcept(ctx context.Context, node types.ConceptNode) error {
	f.addConcept(node.Name)
	return nil
}

func (f *fakeGraphStore) StoreConceptsBatch(ctx context.Context, nodes []types.ConceptNode) error {
	for _, n := range nodes {
		f.addConcept(n.Name)
	}
	return nil
}

func (f *fakeGraphStore) StorePrerequisiteRelationship(ctx context.Context, link types.PrerequisiteLink) error {
	f.addEdge(link.SourceConcept, link.TargetConcept, link.Weight)
	return nil
}

func (f *fakeGraphStore) ConceptExists(ctx context.Context, name string) (bool, error) {
	return f.nodes[normalization.ConceptName(name)], nil
}

func (f *fakeGraphStore) inDegree(name string) int {
	n := 0
	for _, targets := range f.edges {
		if _, ok := targets[name]; ok {
			n++
		}
	}
	return n
}

func (f *fakeGraphStore) RootConcepts(ctx context.Context) ([]string, error) {
	roots := []string{}
	for name := range f.nodes {
		if f.inDegree(name) == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots, nil
}

func (f *fakeGraphStore) Successors(ctx context.Context, name string) ([]types.ConceptSuccessor, error) {
	succs := []types.ConceptSuccessor{}
	for target, weight := range f.edges[normalization.ConceptName(name)] {
		succs = append(succs, types.ConceptSuccessor{Name: target, Weight: weight})
	}
	sort.Slice(succs, func(i, j int) bool {
		if succs[i].Weight != succs[j].Weight {
			return succs[i].Weight > succs[j].Weight
		}
		return succs[i].Name < succs[j].Name
	})
	return succs, nil
}

func (f *fakeGraphStore) Predecessors(ctx context.Context, name string) ([]string, error) {
	normalized := normalization.ConceptName(name)
	preds := []string{}
	for source, targets := range f.edges {
		if _, ok := targets[normalized]; ok {
			preds = append(preds, source)
		}
	}
	sort.Strings(preds)
	return preds, nil
}

// AncestorChain mirrors the Cypher contract: shortest chain from an
// in-degree-zero root, lexicographically smallest root on ties.
func (f *fakeGraphStore) AncestorChain(ctx context.Context, target string) ([]string, error) {
	normalized := normalization.ConceptName(target)
	if !f.nodes[normalized] {
		return nil, nil
	}
	roots, _ := f.RootConcepts(ctx)
	var best []string
	for _, root := range roots {
		path := f.shortestPath(root, normalized)
		if path == nil {
			continue
		}
		if best == nil || len(path) < len(best) {
			best = path
		}
	}
	return best, nil
}

func (f *fakeGraphStore) shortestPath(from, to string) []string {
	if from == to {
		return []string{from}
	}
	prev := map[string]string{}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		targets := []string{}
		for t := range f.edges[cur] {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			if visited[t] {
				continue
			}
			visited[t] = true
			prev[t] = cur
			if t == to {
				path := []string{to}
				for p := to; p != from; {
					p = prev[p]
					path = append([]string{p}, path...)
				}
				return path
			}
			queue = append(queue, t)
		}
	}
	return nil
}

func (f *fakeGraphStore) ConceptDependencies(ctx context.Context) ([]types.ConceptDependency, error) {
	names := []string{}
	for name := range f.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	deps := []types.ConceptDependency{}
	for _, name := range names {
		preds, _ := f.Predecessors(ctx, name)
		deps = append(deps, types.ConceptDependency{Name: name, Prerequisites: preds})
	}
	return deps, nil
}

// fakeProgressRepo holds one status per (user, concept), matching the
// single-row semantics of the Postgres repo.
type fakeProgressRepo struct {
	status map[string]map[string]string
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{status: map[string]map[string]string{}}
}

func (f *fakeProgressRepo) MarkInProgress(ctx context.Context, tx *gorm.DB, userID, concept string) error {
	concept = normalization.ConceptName(concept)
	if f.status[userID] == nil {
		f.status[userID] = map[string]string{}
	}
	// Existing rows are untouched: completion stays sticky.
	if _, ok := f.status[userID][concept]; !ok {
		f.status[userID][concept] = types.ConceptStatusInProgress
	}
	return nil
}

func (f *fakeProgressRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, userID, concept string) error {
	concept = normalization.ConceptName(concept)
	if f.status[userID] == nil {
		f.status[userID] = map[string]string{}
	}
	f.status[userID][concept] = types.ConceptStatusCompleted
	return nil
}

func (f *fakeProgressRepo) GetState(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgressState, error) {
	state := &types.UserProgressState{
		UserID:             userID,
		InProgressConcepts: []string{},
		CompletedConcepts:  []string{},
	}
	for concept, status := range f.status[userID] {
		switch status {
		case types.ConceptStatusCompleted:
			state.CompletedConcepts = append(state.CompletedConcepts, concept)
		case types.ConceptStatusInProgress:
			state.InProgressConcepts = append(state.InProgressConcepts, concept)
		}
	}
	sort.Strings(state.InProgressConcepts)
	sort.Strings(state.CompletedConcepts)
	return state, nil
}

// fakeChunkRepo serves fixed chunk counts/content per concept.
type fakeChunkRepo struct {
	counts map[string]int
	chunks map[string][]*types.LearningChunk
}

func newFakeChunkRepo() *fakeChunkRepo {
	return &fakeChunkRepo{
		counts: map[string]int{},
		chunks: map[string][]*types.LearningChunk{},
	}
}

func (f *fakeChunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.LearningChunk) ([]*types.LearningChunk, error) {
	for _, c := range chunks {
		tag := normalization.ConceptName(c.ConceptTag)
		f.chunks[tag] = append(f.chunks[tag], c)
		f.counts[tag]++
	}
	return chunks, nil
}

func (f *fakeChunkRepo) GetByConcept(ctx context.Context, tx *gorm.DB, concept string) ([]*types.LearningChunk, error) {
	return f.chunks[normalization.ConceptName(concept)], nil
}

func (f *fakeChunkRepo) CountByConcepts(ctx context.Context, tx *gorm.DB, concepts []string) (int64, error) {
	var total int64
	for _, c := range normalization.ConceptNames(concepts) {
		total += int64(f.counts[c])
	}
	return total, nil
}

// fakeProgressBus records published events.
type fakeProgressBus struct {
	events []redisclient.ProgressEvent
}

func (f *fakeProgressBus) Publish(ctx context.Context, event redisclient.ProgressEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeProgressBus) Close() error { return nil }
