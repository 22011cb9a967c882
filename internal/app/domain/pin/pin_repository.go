package pin

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the pin store. Spatial predicates run on geography casts
// so radii are meters.
type Repository interface {
	CreatePin(ctx context.Context, p *models.Pin) (uuid.UUID, error)
	GetBySlug(ctx context.Context, slug string) (*models.Pin, error)
	GetByRef(ctx context.Context, ref models.PinRef) (*models.Pin, error)
	List(ctx context.Context, filter models.PinFilter) ([]models.Pin, error)

	FindWithinRadius(ctx context.Context, category models.Category, lon, lat, radiusMeters float64, limit int) ([]models.PinCandidate, error)
	FindExactPoint(ctx context.Context, category models.Category, lon, lat float64, limit int) ([]models.PinCandidate, error)
	DuplicateCategoriesNear(ctx context.Context, cityID uuid.UUID, lon, lat, toleranceMeters float64) ([]models.Category, error)
	ScanSample(ctx context.Context, category models.Category, limit int) ([]models.Pin, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool DB
}

func NewRepository(pgpool DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const pinColumns = `
    p.id, p.category, p.name, p.city_id, c.name,
    ST_Y(p.location) AS latitude, ST_X(p.location) AS longitude,
    p.slug, p.description, COALESCE(p.header_image, ''), p.icon, p.marker_icon,
    COALESCE(p.link, ''), p.rating, p.published, p.created_by, p.tags,
    p.created_at, p.updated_at`

func scanPin(row pgx.Row) (*models.Pin, error) {
	var p models.Pin
	err := row.Scan(
		&p.ID, &p.Category, &p.Name, &p.CityID, &p.CityName,
		&p.Latitude, &p.Longitude,
		&p.Slug, &p.Description, &p.HeaderImage, &p.Icon, &p.MarkerIcon,
		&p.Link, &p.Rating, &p.Published, &p.CreatedBy, &p.Tags,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RepositoryImpl) CreatePin(ctx context.Context, p *models.Pin) (uuid.UUID, error) {
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return uuid.Nil, fmt.Errorf("invalid coordinates: lat=%f, lon=%f: %w", p.Latitude, p.Longitude, models.ErrBadRequest)
	}
	if p.Name == "" {
		return uuid.Nil, fmt.Errorf("pin name is required: %w", models.ErrBadRequest)
	}
	if !p.Category.Valid() {
		return uuid.Nil, fmt.Errorf("category %q: %w", p.Category, models.ErrUnknownCategory)
	}

	// A nil slice encodes as SQL NULL, which the NOT NULL tags column
	// rejects even with a default in place.
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
        INSERT INTO pins (
            category, name, city_id, location, slug, description, header_image,
            icon, marker_icon, link, rating, published, created_by, tags
        ) VALUES (
            $1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6, $7,
            NULLIF($8, ''), $9, $10, NULLIF($11, ''), $12, $13, $14, $15
        ) RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		p.Category, p.Name, p.CityID, p.Longitude, p.Latitude, p.Slug,
		p.Description, p.HeaderImage, p.Icon, p.MarkerIcon, p.Link,
		p.Rating, p.Published, p.CreatedBy, tags,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert pin %q: %w", p.Name, err)
	}

	r.logger.Info("Pin saved",
		zap.String("name", p.Name),
		zap.String("category", string(p.Category)),
		zap.String("id", id.String()))
	return id, nil
}

func (r *RepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Pin, error) {
	query := `
        SELECT ` + pinColumns + `
        FROM pins p
        JOIN cities c ON c.id = p.city_id
        WHERE p.slug = $1
    `
	p, err := scanPin(r.pgpool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pin by slug %q: %w", slug, err)
	}
	return p, nil
}

func (r *RepositoryImpl) GetByRef(ctx context.Context, ref models.PinRef) (*models.Pin, error) {
	query := `
        SELECT ` + pinColumns + `
        FROM pins p
        JOIN cities c ON c.id = p.city_id
        WHERE p.category = $1 AND p.id = $2
    `
	p, err := scanPin(r.pgpool.QueryRow(ctx, query, ref.Category, ref.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pin %s/%s: %w", ref.Category, ref.ID, err)
	}
	return p, nil
}

// List runs the read-API queries. Ordering matches the public contract:
// rating descending with missing ratings last, then name.
func (r *RepositoryImpl) List(ctx context.Context, filter models.PinFilter) ([]models.Pin, error) {
	builder := sq.Select(
		"p.id", "p.category", "p.name", "p.city_id", "c.name",
		"ST_Y(p.location) AS latitude", "ST_X(p.location) AS longitude",
		"p.slug", "p.description", "COALESCE(p.header_image, '')", "p.icon", "p.marker_icon",
		"COALESCE(p.link, '')", "p.rating", "p.published", "p.created_by", "p.tags",
		"p.created_at", "p.updated_at",
	).
		From("pins p").
		Join("cities c ON c.id = p.city_id").
		OrderBy("p.rating DESC NULLS LAST", "p.name ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.PublishedOnly {
		builder = builder.Where(sq.Eq{"p.published": true})
	}
	if filter.Category != nil {
		builder = builder.Where(sq.Eq{"p.category": *filter.Category})
	}
	if filter.CityID != nil {
		builder = builder.Where(sq.Eq{"p.city_id": *filter.CityID})
	}
	if filter.NameSubstring != "" {
		builder = builder.Where(sq.ILike{"p.name": "%" + filter.NameSubstring + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pin list query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	defer rows.Close()

	var pins []models.Pin
	for rows.Next() {
		p, err := scanPin(rows)
		if err != nil {
			return nil, err
		}
		pins = append(pins, *p)
	}
	return pins, rows.Err()
}

// FindWithinRadius returns up to limit pins of one category within
// radiusMeters of the target, nearest first, with annotated distances.
func (r *RepositoryImpl) FindWithinRadius(ctx context.Context, category models.Category, lon, lat, radiusMeters float64, limit int) ([]models.PinCandidate, error) {
	query := `
        SELECT ` + pinColumns + `,
            ST_Distance(p.location::geography, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography) AS distance
        FROM pins p
        JOIN cities c ON c.id = p.city_id
        WHERE p.category = $1
          AND ST_DWithin(p.location::geography, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)
        ORDER BY distance
        LIMIT $5
    `
	return r.queryCandidates(ctx, query, category, lon, lat, radiusMeters, limit)
}

// FindExactPoint returns pins of one category whose point equals the
// target exactly. Distance is annotated as zero.
func (r *RepositoryImpl) FindExactPoint(ctx context.Context, category models.Category, lon, lat float64, limit int) ([]models.PinCandidate, error) {
	query := `
        SELECT ` + pinColumns + `, 0.0 AS distance
        FROM pins p
        JOIN cities c ON c.id = p.city_id
        WHERE p.category = $1
          AND ST_Equals(p.location, ST_SetSRID(ST_MakePoint($2, $3), 4326))
        LIMIT $4
    `
	return r.queryCandidates(ctx, query, category, lon, lat, limit)
}

func (r *RepositoryImpl) queryCandidates(ctx context.Context, query string, args ...any) ([]models.PinCandidate, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("spatial pin query failed: %w", err)
	}
	defer rows.Close()

	var out []models.PinCandidate
	for rows.Next() {
		var p models.Pin
		var dist float64
		err := rows.Scan(
			&p.ID, &p.Category, &p.Name, &p.CityID, &p.CityName,
			&p.Latitude, &p.Longitude,
			&p.Slug, &p.Description, &p.HeaderImage, &p.Icon, &p.MarkerIcon,
			&p.Link, &p.Rating, &p.Published, &p.CreatedBy, &p.Tags,
			&p.CreatedAt, &p.UpdatedAt,
			&dist,
		)
		if err != nil {
			return nil, err
		}
		d := dist
		out = append(out, models.PinCandidate{Pin: p, Distance: &d})
	}
	return out, rows.Err()
}

// DuplicateCategoriesNear returns the distinct categories, in declaration
// order, that already have a pin within toleranceMeters of the target in
// the given city.
func (r *RepositoryImpl) DuplicateCategoriesNear(ctx context.Context, cityID uuid.UUID, lon, lat, toleranceMeters float64) ([]models.Category, error) {
	query := `
        SELECT DISTINCT category
        FROM pins
        WHERE city_id = $1
          AND ST_DWithin(location::geography, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)
    `
	rows, err := r.pgpool.Query(ctx, query, cityID, lon, lat, toleranceMeters)
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	defer rows.Close()

	found := make(map[models.Category]bool)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		found[c] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []models.Category
	for _, c := range models.Categories() {
		if found[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

// ScanSample returns up to limit pins of one category with their
// coordinates, for the unindexed fallback scan.
func (r *RepositoryImpl) ScanSample(ctx context.Context, category models.Category, limit int) ([]models.Pin, error) {
	query := `
        SELECT p.id, p.category, p.name, p.city_id,
               ST_Y(p.location) AS latitude, ST_X(p.location) AS longitude, p.slug
        FROM pins p
        WHERE p.category = $1
        ORDER BY p.created_at
        LIMIT $2
    `
	rows, err := r.pgpool.Query(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("pin sample scan failed: %w", err)
	}
	defer rows.Close()

	var pins []models.Pin
	for rows.Next() {
		var p models.Pin
		if err := rows.Scan(&p.ID, &p.Category, &p.Name, &p.CityID, &p.Latitude, &p.Longitude, &p.Slug); err != nil {
			return nil, err
		}
		pins = append(pins, p)
	}
	return pins, rows.Err()
}
