package pin

import (
	"strings"
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/tourato/tourato-api/internal/app/models"
)

// hintMatcher recognizes free-text category hints. Exact alias spellings
// win; otherwise the hint and the alias table are compared by
// case-insensitive substring containment in either direction, with the
// alias-in-hint side served by an Aho-Corasick automaton over all alias
// patterns.
type hintMatcher struct {
	automaton ahocorasick.AhoCorasick
	// patternCategory maps automaton pattern index to category.
	patternCategory []models.Category
	patterns        []string
}

var (
	hintOnce    sync.Once
	sharedHints *hintMatcher
)

func newHintMatcher() *hintMatcher {
	hintOnce.Do(func() {
		var patterns []string
		var cats []models.Category
		for _, c := range models.Categories() {
			for _, alias := range c.Aliases() {
				patterns = append(patterns, alias)
				cats = append(cats, c)
			}
		}

		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
		})

		sharedHints = &hintMatcher{
			automaton:       builder.Build(patterns),
			patternCategory: cats,
			patterns:        patterns,
		}
	})
	return sharedHints
}

// Match maps a hint to a category. Resolution order: exact alias,
// alias contained in the hint, hint contained in an alias.
func (h *hintMatcher) Match(hint string) (models.Category, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", false
	}

	if c, ok := models.CategoryFromDisplay(hint); ok {
		return c, true
	}

	if matches := h.automaton.FindAll(hint); len(matches) > 0 {
		return h.patternCategory[matches[0].Pattern()], true
	}

	lower := strings.ToLower(hint)
	for i, p := range h.patterns {
		if strings.Contains(strings.ToLower(p), lower) {
			return h.patternCategory[i], true
		}
	}
	return "", false
}
