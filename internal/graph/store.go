package graph

import (
	"context"

	"github.com/yungbote/learnfast-backend/internal/types"
)

// GraphStore is the narrow query contract the navigation and path-resolution
// services depend on. Implementations own all concept/edge persistence; the
// services hold no graph state of their own.
type GraphStore interface {
	InitializeConstraints(ctx context.Context) error
	VerifyConstraints(ctx context.Context) (bool, error)

	StoreConcept(ctx context.Context, node types.ConceptNode) error
	StoreConceptsBatch(ctx context.Context, nodes []types.ConceptNode) error
	StorePrerequisiteRelationship(ctx context.Context, link types.PrerequisiteLink) error

	ConceptExists(ctx context.Context, name string) (bool, error)
	RootConcepts(ctx context.Context) ([]string, error)
	Successors(ctx context.Context, name string) ([]types.ConceptSuccessor, error)
	Predecessors(ctx context.Context, name string) ([]string, error)
	AncestorChain(ctx context.Context, target string) ([]string, error)
	ConceptDependencies(ctx context.Context) ([]types.ConceptDependency, error)
}
