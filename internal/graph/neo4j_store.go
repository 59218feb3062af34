package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/learnfast-backend/internal/logger"
	"github.com/yungbote/learnfast-backend/internal/normalization"
	"github.com/yungbote/learnfast-backend/internal/platform/neo4jdb"
	"github.com/yungbote/learnfast-backend/internal/types"
)

// maxChainDepth caps variable-length chain matches so a cyclic or degenerate
// graph cannot make the ancestor query unbounded.
const maxChainDepth = 25

type neo4jGraphStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewNeo4jGraphStore wraps a Neo4j client as a GraphStore. A nil client is
// accepted: every read answers as if the graph were empty and every write is
// a no-op, so an unready store degrades instead of erroring.
func NewNeo4jGraphStore(client *neo4jdb.Client, baseLog *logger.Logger) GraphStore {
	return &neo4jGraphStore{
		client: client,
		log:    baseLog.With("store", "Neo4jGraphStore"),
	}
}

func (s *neo4jGraphStore) ready() bool {
	return s.client != nil && s.client.Driver != nil
}

func (s *neo4jGraphStore) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
}

func (s *neo4jGraphStore) readSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
}

func (s *neo4jGraphStore) InitializeConstraints(ctx context.Context) error {
	if !s.ready() {
		return nil
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `CREATE CONSTRAINT concept_name_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.name IS UNIQUE`, nil)
	if err != nil {
		return fmt.Errorf("initialize constraints: %w", err)
	}
	_, err = res.Consume(ctx)
	return err
}

func (s *neo4jGraphStore) VerifyConstraints(ctx context.Context) (bool, error) {
	if !s.ready() {
		return false, nil
	}
	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `SHOW CONSTRAINTS YIELD name WHERE name = $name RETURN count(*) AS n`,
			map[string]any{"name": "concept_name_unique"})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := rec.Get("n")
		count, ok := n.(int64)
		return ok && count > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("verify constraints: %w", err)
	}
	active, _ := out.(bool)
	return active, nil
}

func (s *neo4jGraphStore) StoreConcept(ctx context.Context, node types.ConceptNode) error {
	return s.StoreConceptsBatch(ctx, []types.ConceptNode{node})
}

func (s *neo4jGraphStore) StoreConceptsBatch(ctx context.Context, nodes []types.ConceptNode) error {
	if !s.ready() {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	rows := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		name := normalization.ConceptName(n.Name)
		if name == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"name":        name,
			"description": n.Description,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (c:Concept {name: n.name})
ON CREATE SET c.created_at = $now
SET c.description = CASE WHEN n.description = '' THEN coalesce(c.description, '') ELSE n.description END,
    c.updated_at = $now
`, map[string]any{"nodes": rows, "now": now})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("store concepts batch: %w", err)
	}
	return nil
}

func (s *neo4jGraphStore) StorePrerequisiteRelationship(ctx context.Context, link types.PrerequisiteLink) error {
	if !s.ready() {
		return nil
	}
	source := normalization.ConceptName(link.SourceConcept)
	target := normalization.ConceptName(link.TargetConcept)
	if source == "" || target == "" {
		return fmt.Errorf("store prerequisite: empty endpoint")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	// Keyed by the ordered pair. On conflict the higher-weight link wins and
	// carries its reasoning.
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MERGE (a:Concept {name: $source})
MERGE (b:Concept {name: $target})
MERGE (a)-[e:PREREQUISITE_FOR]->(b)
ON CREATE SET e.weight = $weight, e.reasoning = $reasoning, e.created_at = $now
ON MATCH SET e += CASE WHEN $weight > e.weight THEN {weight: $weight, reasoning: $reasoning} ELSE {} END
SET e.updated_at = $now
`, map[string]any{
			"source":    source,
			"target":    target,
			"weight":    link.Weight,
			"reasoning": link.Reasoning,
			"now":       now,
		})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("store prerequisite %s -> %s: %w", source, target, err)
	}
	return nil
}

func (s *neo4jGraphStore) ConceptExists(ctx context.Context, name string) (bool, error) {
	if !s.ready() {
		return false, nil
	}
	normalized := normalization.ConceptName(name)
	if normalized == "" {
		return false, nil
	}

	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (c:Concept {name: $name}) RETURN count(c) > 0 AS exists`,
			map[string]any{"name": normalized})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := rec.Get("exists")
		exists, ok := v.(bool)
		return ok && exists, nil
	})
	if err != nil {
		return false, fmt.Errorf("concept exists %q: %w", normalized, err)
	}
	exists, _ := out.(bool)
	return exists, nil
}

func (s *neo4jGraphStore) RootConcepts(ctx context.Context) ([]string, error) {
	if !s.ready() {
		return []string{}, nil
	}
	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Concept)
WHERE NOT ( (:Concept)-[:PREREQUISITE_FOR]->(c) )
RETURN c.name AS name
`, nil)
		if err != nil {
			return nil, err
		}
		names := []string{}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("name"); ok {
				if name, ok := v.(string); ok {
					names = append(names, name)
				}
			}
		}
		return names, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("root concepts: %w", err)
	}
	return out.([]string), nil
}

func (s *neo4jGraphStore) Successors(ctx context.Context, name string) ([]types.ConceptSuccessor, error) {
	if !s.ready() {
		return []types.ConceptSuccessor{}, nil
	}
	normalized := normalization.ConceptName(name)

	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Order is the preview tie-break: strongest edge first, then name.
		res, err := tx.Run(ctx, `
MATCH (:Concept {name: $name})-[e:PREREQUISITE_FOR]->(n:Concept)
RETURN n.name AS name, e.weight AS weight
ORDER BY e.weight DESC, n.name ASC
`, map[string]any{"name": normalized})
		if err != nil {
			return nil, err
		}
		succs := []types.ConceptSuccessor{}
		for res.Next(ctx) {
			rec := res.Record()
			nameVal, _ := rec.Get("name")
			weightVal, _ := rec.Get("weight")
			succName, ok := nameVal.(string)
			if !ok {
				continue
			}
			weight, _ := weightVal.(float64)
			succs = append(succs, types.ConceptSuccessor{Name: succName, Weight: weight})
		}
		return succs, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("successors of %q: %w", normalized, err)
	}
	return out.([]types.ConceptSuccessor), nil
}

func (s *neo4jGraphStore) Predecessors(ctx context.Context, name string) ([]string, error) {
	if !s.ready() {
		return []string{}, nil
	}
	normalized := normalization.ConceptName(name)

	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (p:Concept)-[:PREREQUISITE_FOR]->(:Concept {name: $name})
RETURN p.name AS name
ORDER BY p.name ASC
`, map[string]any{"name": normalized})
		if err != nil {
			return nil, err
		}
		names := []string{}
		for res.Next(ctx) {
			if v, ok := res.Record().Get("name"); ok {
				if predName, ok := v.(string); ok {
					names = append(names, predName)
				}
			}
		}
		return names, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("predecessors of %q: %w", normalized, err)
	}
	return out.([]string), nil
}

func (s *neo4jGraphStore) AncestorChain(ctx context.Context, target string) ([]string, error) {
	if !s.ready() {
		return nil, nil
	}
	normalized := normalization.ConceptName(target)
	if normalized == "" {
		return nil, nil
	}

	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Shortest prerequisite chain from an in-degree-zero root to the
		// target; among equal-length chains the lexicographically smallest
		// root wins. The hop cap bounds the match on cyclic data.
		res, err := tx.Run(ctx, fmt.Sprintf(`
MATCH (t:Concept {name: $name})
MATCH p = shortestPath((r:Concept)-[:PREREQUISITE_FOR*0..%d]->(t))
WHERE NOT ( (:Concept)-[:PREREQUISITE_FOR]->(r) )
WITH p, r
ORDER BY length(p) ASC, r.name ASC
LIMIT 1
RETURN [n IN nodes(p) | n.name] AS chain
`, maxChainDepth), map[string]any{"name": normalized})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return nil, res.Err()
		}
		v, _ := res.Record().Get("chain")
		raw, ok := v.([]any)
		if !ok {
			return nil, nil
		}
		chain := make([]string, 0, len(raw))
		for _, item := range raw {
			if name, ok := item.(string); ok {
				chain = append(chain, name)
			}
		}
		return chain, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ancestor chain of %q: %w", normalized, err)
	}
	chain, _ := out.([]string)
	return chain, nil
}

func (s *neo4jGraphStore) ConceptDependencies(ctx context.Context) ([]types.ConceptDependency, error) {
	if !s.ready() {
		return []types.ConceptDependency{}, nil
	}
	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Concept)
OPTIONAL MATCH (p:Concept)-[:PREREQUISITE_FOR]->(c)
RETURN c.name AS name, [x IN collect(p.name) WHERE x IS NOT NULL] AS prereqs
ORDER BY c.name ASC
`, nil)
		if err != nil {
			return nil, err
		}
		deps := []types.ConceptDependency{}
		for res.Next(ctx) {
			rec := res.Record()
			nameVal, _ := rec.Get("name")
			name, ok := nameVal.(string)
			if !ok {
				continue
			}
			prereqVal, _ := rec.Get("prereqs")
			rawPrereqs, _ := prereqVal.([]any)
			prereqs := make([]string, 0, len(rawPrereqs))
			for _, item := range rawPrereqs {
				if p, ok := item.(string); ok {
					prereqs = append(prereqs, p)
				}
			}
			deps = append(deps, types.ConceptDependency{Name: name, Prerequisites: prereqs})
		}
		return deps, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("concept dependencies: %w", err)
	}
	return out.([]types.ConceptDependency), nil
}
