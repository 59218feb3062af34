package normalization

import (
	"strings"
)

// ConceptName lowercases and trims a concept name. Two names differing only
// in case identify the same concept node, so every read and write boundary
// goes through here.
func ConceptName(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ConceptNames normalizes a list of names, dropping empties and duplicates
// while preserving first-seen order.
func ConceptNames(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		n := ConceptName(in)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
