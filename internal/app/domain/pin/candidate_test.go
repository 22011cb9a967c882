package pin

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourato/tourato-api/internal/app/models"
)

func candidate(name string, category models.Category, distance float64) models.PinCandidate {
	d := distance
	return models.PinCandidate{
		Pin: models.Pin{
			ID:       uuid.New(),
			Category: category,
			Name:     name,
		},
		Distance: &d,
	}
}

func TestResolveCandidateEmpty(t *testing.T) {
	_, err := ResolveCandidate(nil, "Hotels")
	assert.ErrorIs(t, err, models.ErrNoCandidate)
}

func TestResolveCandidateSingle(t *testing.T) {
	cands := []models.PinCandidate{candidate("Red Fort", models.CategoryMainAttraction, 42)}

	got, err := ResolveCandidate(cands, "")
	require.NoError(t, err)
	assert.Equal(t, "Red Fort", got.Pin.Name)
}

func TestResolveCandidateNearestWins(t *testing.T) {
	cands := []models.PinCandidate{
		candidate("Far", models.CategoryMainAttraction, 900),
		candidate("Near", models.CategoryMarket, 12),
		candidate("Mid", models.CategoryHotel, 300),
	}

	got, err := ResolveCandidate(cands, "")
	require.NoError(t, err)
	assert.Equal(t, "Near", got.Pin.Name)
}

func TestResolveCandidateHintPrefersCategory(t *testing.T) {
	cands := []models.PinCandidate{
		candidate("Near Attraction", models.CategoryMainAttraction, 5),
		candidate("Far Hotel", models.CategoryHotel, 800),
		candidate("Nearer Hotel", models.CategoryHotel, 400),
	}

	got, err := ResolveCandidate(cands, "Hotels")
	require.NoError(t, err)
	assert.Equal(t, "Nearer Hotel", got.Pin.Name)
}

func TestResolveCandidateUnrecognizedHintFallsBack(t *testing.T) {
	cands := []models.PinCandidate{
		candidate("Near", models.CategoryMarket, 10),
		candidate("Far", models.CategoryHotel, 500),
	}

	got, err := ResolveCandidate(cands, "zzzzz")
	require.NoError(t, err)
	assert.Equal(t, "Near", got.Pin.Name)
}

func TestResolveCandidateHintWithNoMatchingCategory(t *testing.T) {
	cands := []models.PinCandidate{
		candidate("Near", models.CategoryMarket, 10),
		candidate("Far", models.CategoryFestivals, 500),
	}

	got, err := ResolveCandidate(cands, "Hotels")
	require.NoError(t, err)
	assert.Equal(t, "Near", got.Pin.Name)
}

func TestSortCandidatesTieBreaksByDeclarationOrder(t *testing.T) {
	cands := []models.PinCandidate{
		candidate("B", models.CategoryHotel, 50),
		candidate("A", models.CategoryMainAttraction, 50),
	}

	sortCandidates(cands)

	assert.Equal(t, "A", cands[0].Pin.Name)
	assert.Equal(t, "B", cands[1].Pin.Name)
}

func TestSortCandidatesNilDistanceLast(t *testing.T) {
	noDist := models.PinCandidate{Pin: models.Pin{Name: "Unknown", Category: models.CategoryMarket}}
	cands := []models.PinCandidate{
		noDist,
		candidate("Known", models.CategoryHotel, 999),
	}

	sortCandidates(cands)

	assert.Equal(t, "Known", cands[0].Pin.Name)
}

func TestHintMatcher(t *testing.T) {
	m := newHintMatcher()

	tests := []struct {
		hint string
		want models.Category
		ok   bool
	}{
		{"Main Attraction", models.CategoryMainAttraction, true},
		{"Hotels", models.CategoryHotel, true},
		{"best hotel in town", models.CategoryHotel, true},
		{"Photo", models.CategoryFamousPhotoPoint, true},
		{"", "", false},
		{"completely unrelated", "", false},
	}
	for _, tt := range tests {
		got, ok := m.Match(tt.hint)
		assert.Equal(t, tt.ok, ok, "hint %q", tt.hint)
		if tt.ok {
			assert.Equal(t, tt.want, got, "hint %q", tt.hint)
		}
	}
}
