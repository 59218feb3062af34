package types

// ConceptNode is a single learnable concept in the prerequisite graph.
// Identity is the normalized (lowercased) name.
type ConceptNode struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PrerequisiteLink is a directed edge source -> target asserting that the
// source concept should be learned before the target. Weight is a confidence
// score, conventionally in [0, 1]. When the same ordered pair is stored twice
// the higher-weight link wins and carries its reasoning.
type PrerequisiteLink struct {
	SourceConcept string  `json:"source_concept"`
	TargetConcept string  `json:"target_concept"`
	Weight        float64 `json:"weight"`
	Reasoning     string  `json:"reasoning,omitempty"`
}

// ConceptSuccessor is a forward neighbor of a concept together with the edge
// weight, used for deterministic path previews.
type ConceptSuccessor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ConceptDependency pairs a concept with its direct prerequisites.
type ConceptDependency struct {
	Name          string   `json:"name"`
	Prerequisites []string `json:"prerequisites"`
}

// LearningPath is the output of path resolution: an ordered prefix of the
// prerequisite chain toward TargetConcept. TargetConcept always carries the
// normalized target name even when pruning cut it from Concepts; callers
// check Pruned to know whether the target was actually reached.
type LearningPath struct {
	Concepts             []string `json:"concepts"`
	EstimatedTimeMinutes int      `json:"estimated_time_minutes"`
	TargetConcept        string   `json:"target_concept"`
	Pruned               bool     `json:"pruned"`
}

// UserProgressState is a snapshot of a user's two progress sets. The sets are
// disjoint at all times.
type UserProgressState struct {
	UserID             string   `json:"user_id"`
	InProgressConcepts []string `json:"in_progress_concepts"`
	CompletedConcepts  []string `json:"completed_concepts"`
}
