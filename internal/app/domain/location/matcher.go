package location

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/models"
	"github.com/tourato/tourato-api/internal/pkg/fuzzy"
	"github.com/tourato/tourato-api/internal/pkg/geo"
)

// Matcher resolves free-text country/state/city names against the stored
// hierarchy. Each resolve follows the same three tiers: exact
// case-insensitive match in scope, fuzzy match at or above the threshold,
// then create.
type Matcher struct {
	repo      Repository
	threshold float64
	sim       fuzzy.Similarity
	logger    *zap.Logger
}

func NewMatcher(repo Repository, threshold float64, logger *zap.Logger) *Matcher {
	return &Matcher{
		repo:      repo,
		threshold: threshold,
		sim:       fuzzy.Ratio,
		logger:    logger,
	}
}

// WithSimilarity swaps the scoring strategy, mainly for tests.
func (m *Matcher) WithSimilarity(sim fuzzy.Similarity) *Matcher {
	m.sim = sim
	return m
}

// ResolveCountry returns the country matching name, creating one with the
// hint point as degenerate geometry when no adequate match exists. An
// empty name resolves to nil without error.
func (m *Matcher) ResolveCountry(ctx context.Context, name string, hint geo.Point) (*models.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	country, err := m.repo.GetCountryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if country != nil {
		return country, nil
	}

	existing, err := m.repo.ListCountryNames(ctx)
	if err != nil {
		return nil, err
	}
	if matched, ok := fuzzy.BestMatch(name, existing, m.threshold, m.sim); ok {
		return m.repo.GetCountryByName(ctx, matched)
	}

	m.logger.Info("Creating new country", zap.String("name", name))
	return m.repo.CreateCountry(ctx, name, hint.WKT())
}

// ResolveState resolves name within the given country. States created on a
// fuzzy miss carry no geometry.
func (m *Matcher) ResolveState(ctx context.Context, country *models.Country, name string) (*models.State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if country == nil {
		return nil, fmt.Errorf("state %q has no country scope: %w", name, models.ErrBadRequest)
	}

	state, err := m.repo.GetStateByName(ctx, country.ID, name)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	existing, err := m.repo.ListStateNames(ctx, country.ID)
	if err != nil {
		return nil, err
	}
	if matched, ok := fuzzy.BestMatch(name, existing, m.threshold, m.sim); ok {
		return m.repo.GetStateByName(ctx, country.ID, matched)
	}

	m.logger.Info("Creating new state",
		zap.String("name", name),
		zap.String("country", country.Name))
	return m.repo.CreateState(ctx, country.ID, name)
}

// ResolveCity resolves name within the given state; same geometry-omission
// rule as ResolveState.
func (m *Matcher) ResolveCity(ctx context.Context, state *models.State, name string) (*models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if state == nil {
		return nil, fmt.Errorf("city %q has no state scope: %w", name, models.ErrBadRequest)
	}

	city, err := m.repo.GetCityByName(ctx, state.ID, name)
	if err != nil {
		return nil, err
	}
	if city != nil {
		return city, nil
	}

	existing, err := m.repo.ListCityNames(ctx, state.ID)
	if err != nil {
		return nil, err
	}
	if matched, ok := fuzzy.BestMatch(name, existing, m.threshold, m.sim); ok {
		return m.repo.GetCityByName(ctx, state.ID, matched)
	}

	m.logger.Info("Creating new city",
		zap.String("name", name),
		zap.String("state", state.Name))
	return m.repo.CreateCity(ctx, state.ID, name)
}

// Hierarchy exposes the ancestor lookup for social post linking.
func (m *Matcher) Hierarchy(ctx context.Context, cityID uuid.UUID) (*models.CityHierarchy, error) {
	return m.repo.GetCityHierarchy(ctx, cityID)
}
