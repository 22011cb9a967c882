package pin

import (
	"sort"

	"github.com/tourato/tourato-api/internal/app/models"
)

// unknownDistance sorts candidates the backend could not annotate last.
const unknownDistance = 1e9

func candidateDistance(c models.PinCandidate) float64 {
	if c.Distance == nil {
		return unknownDistance
	}
	return *c.Distance
}

// categoryRank gives the declaration-order index used for deterministic
// tie-breaking between equally distant candidates.
func categoryRank(c models.Category) int {
	for i, cat := range models.Categories() {
		if cat == c {
			return i
		}
	}
	return len(models.Categories())
}

// sortCandidates orders by distance, then declaration order. The sort is
// stable so equal candidates keep their arrival order.
func sortCandidates(cands []models.PinCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := candidateDistance(cands[i]), candidateDistance(cands[j])
		if di != dj {
			return di < dj
		}
		return categoryRank(cands[i].Pin.Category) < categoryRank(cands[j].Pin.Category)
	})
}

// ResolveCandidate selects exactly one winner from a candidate list. With
// a recognizable category hint the nearest candidate of that category
// wins; otherwise the globally nearest. Only an empty list yields
// ErrNoCandidate.
func ResolveCandidate(cands []models.PinCandidate, categoryHint string) (*models.PinCandidate, error) {
	if len(cands) == 0 {
		return nil, models.ErrNoCandidate
	}
	if len(cands) == 1 {
		return &cands[0], nil
	}

	sortCandidates(cands)

	if categoryHint != "" {
		if wanted, ok := newHintMatcher().Match(categoryHint); ok {
			for i := range cands {
				if cands[i].Pin.Category == wanted {
					return &cands[i], nil
				}
			}
		}
	}

	return &cands[0], nil
}
