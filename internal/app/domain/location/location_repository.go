package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the store behind the location matcher. Lookups are scoped
// to the parent entity; creations commit immediately so later import rows
// observe entities created by earlier rows.
type Repository interface {
	GetCountryByName(ctx context.Context, name string) (*models.Country, error)
	ListCountryNames(ctx context.Context) ([]string, error)
	CreateCountry(ctx context.Context, name, geometryWKT string) (*models.Country, error)

	GetStateByName(ctx context.Context, countryID uuid.UUID, name string) (*models.State, error)
	ListStateNames(ctx context.Context, countryID uuid.UUID) ([]string, error)
	CreateState(ctx context.Context, countryID uuid.UUID, name string) (*models.State, error)

	GetCityByName(ctx context.Context, stateID uuid.UUID, name string) (*models.City, error)
	ListCityNames(ctx context.Context, stateID uuid.UUID) ([]string, error)
	CreateCity(ctx context.Context, stateID uuid.UUID, name string) (*models.City, error)

	GetCityHierarchy(ctx context.Context, cityID uuid.UUID) (*models.CityHierarchy, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) GetCountryByName(ctx context.Context, name string) (*models.Country, error) {
	query := `
        SELECT id, name, COALESCE(ST_AsText(geometry), ''), is_active, created_at, updated_at
        FROM countries
        WHERE LOWER(name) = LOWER($1)
    `
	var c models.Country
	err := r.pgpool.QueryRow(ctx, query, name).Scan(
		&c.ID, &c.Name, &c.Geometry, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get country %q: %w", name, err)
	}
	return &c, nil
}

func (r *RepositoryImpl) ListCountryNames(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, `SELECT name FROM countries ORDER BY name`)
}

func (r *RepositoryImpl) CreateCountry(ctx context.Context, name, geometryWKT string) (*models.Country, error) {
	query := `
        INSERT INTO countries (name, geometry)
        VALUES ($1, ST_SetSRID(ST_GeomFromText($2), 4326))
        RETURNING id, name, COALESCE(ST_AsText(geometry), ''), is_active, created_at, updated_at
    `
	var c models.Country
	err := r.pgpool.QueryRow(ctx, query, name, geometryWKT).Scan(
		&c.ID, &c.Name, &c.Geometry, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create country %q: %w", name, err)
	}
	r.logger.Info("Created country", zap.String("name", name), zap.String("id", c.ID.String()))
	return &c, nil
}

func (r *RepositoryImpl) GetStateByName(ctx context.Context, countryID uuid.UUID, name string) (*models.State, error) {
	query := `
        SELECT id, country_id, name, COALESCE(ST_AsText(geometry), ''), is_active, created_at, updated_at
        FROM states
        WHERE country_id = $1 AND LOWER(name) = LOWER($2)
    `
	var s models.State
	err := r.pgpool.QueryRow(ctx, query, countryID, name).Scan(
		&s.ID, &s.CountryID, &s.Name, &s.Geometry, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get state %q: %w", name, err)
	}
	return &s, nil
}

func (r *RepositoryImpl) ListStateNames(ctx context.Context, countryID uuid.UUID) ([]string, error) {
	return r.listNames(ctx, `SELECT name FROM states WHERE country_id = $1 ORDER BY name`, countryID)
}

// CreateState inserts a state without geometry: states created on a fuzzy
// miss are linked to their country by name only.
func (r *RepositoryImpl) CreateState(ctx context.Context, countryID uuid.UUID, name string) (*models.State, error) {
	query := `
        INSERT INTO states (country_id, name)
        VALUES ($1, $2)
        RETURNING id, country_id, name, COALESCE(ST_AsText(geometry), ''), is_active, created_at, updated_at
    `
	var s models.State
	err := r.pgpool.QueryRow(ctx, query, countryID, name).Scan(
		&s.ID, &s.CountryID, &s.Name, &s.Geometry, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create state %q: %w", name, err)
	}
	r.logger.Info("Created state", zap.String("name", name), zap.String("country_id", countryID.String()))
	return &s, nil
}

func (r *RepositoryImpl) GetCityByName(ctx context.Context, stateID uuid.UUID, name string) (*models.City, error) {
	query := `
        SELECT id, state_id, name, COALESCE(ST_AsText(geometry), ''), is_active, created_at, updated_at
        FROM cities
        WHERE state_id = $1 AND LOWER(name) = LOWER($2)
    `
	var c models.City
	err := r.pgpool.QueryRow(ctx, query, stateID, name).Scan(
		&c.ID, &c.StateID, &c.Name, &c.Geometry, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get city %q: %w", name, err)
	}
	return &c, nil
}

func (r *RepositoryImpl) ListCityNames(ctx context.Context, stateID uuid.UUID) ([]string, error) {
	return r.listNames(ctx, `SELECT name FROM cities WHERE state_id = $1 ORDER BY name`, stateID)
}

func (r *RepositoryImpl) CreateCity(ctx context.Context, stateID uuid.UUID, name string) (*models.City, error) {
	query := `
        INSERT INTO cities (state_id, name)
        VALUES ($1, $2)
        RETURNING id, state_id, name, COALESCE(ST_AsText(geometry), ''), is_active, created_at, updated_at
    `
	var c models.City
	err := r.pgpool.QueryRow(ctx, query, stateID, name).Scan(
		&c.ID, &c.StateID, &c.Name, &c.Geometry, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create city %q: %w", name, err)
	}
	r.logger.Info("Created city", zap.String("name", name), zap.String("state_id", stateID.String()))
	return &c, nil
}

func (r *RepositoryImpl) GetCityHierarchy(ctx context.Context, cityID uuid.UUID) (*models.CityHierarchy, error) {
	query := `
        SELECT c.id, s.id, co.id
        FROM cities c
        JOIN states s ON s.id = c.state_id
        JOIN countries co ON co.id = s.country_id
        WHERE c.id = $1
    `
	var h models.CityHierarchy
	err := r.pgpool.QueryRow(ctx, query, cityID).Scan(&h.CityID, &h.StateID, &h.CountryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve city hierarchy: %w", err)
	}
	return &h, nil
}

func (r *RepositoryImpl) listNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
