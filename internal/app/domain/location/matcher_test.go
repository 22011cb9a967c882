package location

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/models"
	"github.com/tourato/tourato-api/internal/pkg/geo"
)

// fakeRepository keeps the hierarchy in memory with case-insensitive
// lookups mirroring the SQL implementation.
type fakeRepository struct {
	countries []*models.Country
	states    []*models.State
	cities    []*models.City
	created   int
}

func (f *fakeRepository) GetCountryByName(_ context.Context, name string) (*models.Country, error) {
	for _, c := range f.countries {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ListCountryNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(f.countries))
	for _, c := range f.countries {
		names = append(names, c.Name)
	}
	return names, nil
}

func (f *fakeRepository) CreateCountry(_ context.Context, name, _ string) (*models.Country, error) {
	c := &models.Country{ID: uuid.New(), Name: name, IsActive: true}
	f.countries = append(f.countries, c)
	f.created++
	return c, nil
}

func (f *fakeRepository) GetStateByName(_ context.Context, countryID uuid.UUID, name string) (*models.State, error) {
	for _, s := range f.states {
		if s.CountryID == countryID && strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ListStateNames(_ context.Context, countryID uuid.UUID) ([]string, error) {
	var names []string
	for _, s := range f.states {
		if s.CountryID == countryID {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

func (f *fakeRepository) CreateState(_ context.Context, countryID uuid.UUID, name string) (*models.State, error) {
	s := &models.State{ID: uuid.New(), CountryID: countryID, Name: name, IsActive: true}
	f.states = append(f.states, s)
	f.created++
	return s, nil
}

func (f *fakeRepository) GetCityByName(_ context.Context, stateID uuid.UUID, name string) (*models.City, error) {
	for _, c := range f.cities {
		if c.StateID == stateID && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ListCityNames(_ context.Context, stateID uuid.UUID) ([]string, error) {
	var names []string
	for _, c := range f.cities {
		if c.StateID == stateID {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

func (f *fakeRepository) CreateCity(_ context.Context, stateID uuid.UUID, name string) (*models.City, error) {
	c := &models.City{ID: uuid.New(), StateID: stateID, Name: name, IsActive: true}
	f.cities = append(f.cities, c)
	f.created++
	return c, nil
}

func (f *fakeRepository) GetCityHierarchy(_ context.Context, cityID uuid.UUID) (*models.CityHierarchy, error) {
	for _, c := range f.cities {
		if c.ID == cityID {
			for _, s := range f.states {
				if s.ID == c.StateID {
					return &models.CityHierarchy{CityID: c.ID, StateID: s.ID, CountryID: s.CountryID}, nil
				}
			}
		}
	}
	return nil, models.ErrNotFound
}

func newTestMatcher(repo Repository) *Matcher {
	return NewMatcher(repo, 0.75, zap.NewNop())
}

var delhi = geo.Point{Lon: 77.2410, Lat: 28.6562}

func TestResolveCountryIdempotent(t *testing.T) {
	repo := &fakeRepository{}
	m := newTestMatcher(repo)
	ctx := context.Background()

	first, err := m.ResolveCountry(ctx, "France", delhi)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := m.ResolveCountry(ctx, "France", delhi)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Case variants never create a second country.
	third, err := m.ResolveCountry(ctx, "france", delhi)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, 1, repo.created)
}

func TestResolveCountryFuzzyThresholdBoundary(t *testing.T) {
	repo := &fakeRepository{}
	m := newTestMatcher(repo)
	ctx := context.Background()

	existing, err := m.ResolveCountry(ctx, "abcd", delhi)
	require.NoError(t, err)

	// One edit over four characters is exactly 0.75: matches.
	got, err := m.ResolveCountry(ctx, "abcx", delhi)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	// Two edits is 0.5: creates new.
	other, err := m.ResolveCountry(ctx, "abxy", delhi)
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, other.ID)
	assert.Equal(t, 2, repo.created)
}

func TestResolveCountryEmptyName(t *testing.T) {
	m := newTestMatcher(&fakeRepository{})

	got, err := m.ResolveCountry(context.Background(), "   ", delhi)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveStateScopedToCountry(t *testing.T) {
	repo := &fakeRepository{}
	m := newTestMatcher(repo)
	ctx := context.Background()

	india, err := m.ResolveCountry(ctx, "India", delhi)
	require.NoError(t, err)
	france, err := m.ResolveCountry(ctx, "France", delhi)
	require.NoError(t, err)

	inState, err := m.ResolveState(ctx, india, "Delhi")
	require.NoError(t, err)

	// Same name under a different country is a different state.
	frState, err := m.ResolveState(ctx, france, "Delhi")
	require.NoError(t, err)
	assert.NotEqual(t, inState.ID, frState.ID)

	// Fuzzy variant within the same country resolves to the existing one.
	again, err := m.ResolveState(ctx, india, "Delhii")
	require.NoError(t, err)
	assert.Equal(t, inState.ID, again.ID)
}

func TestResolveCityCreatesWithoutGeometry(t *testing.T) {
	repo := &fakeRepository{}
	m := newTestMatcher(repo)
	ctx := context.Background()

	india, err := m.ResolveCountry(ctx, "India", delhi)
	require.NoError(t, err)
	state, err := m.ResolveState(ctx, india, "Delhi")
	require.NoError(t, err)

	city, err := m.ResolveCity(ctx, state, "New Delhi")
	require.NoError(t, err)
	require.NotNil(t, city)
	assert.Empty(t, city.Geometry)
	assert.Equal(t, state.ID, city.StateID)
}

func TestResolveStateWithoutScopeFails(t *testing.T) {
	m := newTestMatcher(&fakeRepository{})

	_, err := m.ResolveState(context.Background(), nil, "Delhi")
	assert.Error(t, err)
}
