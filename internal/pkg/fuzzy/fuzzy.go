// Package fuzzy provides the approximate string matching used when
// reconciling free-text location and platform names against existing rows.
package fuzzy

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity scores two strings in [0, 1], 1 meaning identical. The
// default is a normalized edit-distance ratio, but matchers accept any
// strategy so the threshold behaviour is testable in isolation.
type Similarity func(a, b string) float64

// Ratio is the default Similarity: 1 - dist/maxLen over the lowercased
// inputs.
func Ratio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// BestMatch returns the candidate most similar to name, provided the score
// meets the threshold (inclusive). The first candidate wins ties so the
// result is deterministic for a stable candidate order.
func BestMatch(name string, candidates []string, threshold float64, sim Similarity) (string, bool) {
	if sim == nil {
		sim = Ratio
	}
	name = strings.TrimSpace(name)
	if name == "" || len(candidates) == 0 {
		return "", false
	}

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := sim(name, c)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore >= threshold && best != "" {
		return best, true
	}
	return "", false
}
