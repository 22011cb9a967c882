package social

import (
	"context"
	"errors"
	"fmt"

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

// Repository is the social post and platform store.
type Repository interface {
	LinkExists(ctx context.Context, link string) (bool, error)
	CreatePost(ctx context.Context, post *models.SocialPost) (uuid.UUID, error)
	ListPostsForPin(ctx context.Context, ref models.PinRef) ([]models.SocialPost, error)

	GetPlatformByName(ctx context.Context, name string) (*models.PostPlatform, error)
	GetPlatformByCode(ctx context.Context, code string) (*models.PostPlatform, error)
	ListPlatformNames(ctx context.Context) ([]string, error)
	ListPlatforms(ctx context.Context) ([]models.PostPlatform, error)
	CreatePlatform(ctx context.Context, name, code string) (*models.PostPlatform, error)
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

func (r *RepositoryImpl) LinkExists(ctx context.Context, link string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM social_posts WHERE link = $1)`, link,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check link %q: %w", link, err)
	}
	return exists, nil
}

func (r *RepositoryImpl) CreatePost(ctx context.Context, post *models.SocialPost) (uuid.UUID, error) {
	if post.Link == "" {
		return uuid.Nil, fmt.Errorf("post link is required: %w", models.ErrBadRequest)
	}

	var pinCategory *models.Category
	var pinID *uuid.UUID
	if post.Pin != nil {
		pinCategory = &post.Pin.Category
		pinID = &post.Pin.ID
	}

	// A nil slice encodes as SQL NULL, which the NOT NULL tags column
	// rejects even with a default in place.
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
        INSERT INTO social_posts (
            name, platform_id, link, description, language, published,
            pin_category, pin_id, country_id, state_id, city_id, tags
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		post.Name, post.PlatformID, post.Link, post.Description, post.Language,
		post.Published, pinCategory, pinID, post.CountryID, post.StateID,
		post.CityID, tags,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert social post %q: %w", post.Link, err)
	}

	r.logger.Info("Social post saved",
		zap.String("link", post.Link),
		zap.String("id", id.String()))
	return id, nil
}

func (r *RepositoryImpl) ListPostsForPin(ctx context.Context, ref models.PinRef) ([]models.SocialPost, error) {
	query := `
        SELECT sp.id, sp.name, sp.platform_id, sp.link, sp.description,
               sp.language, sp.published, sp.tags, sp.created_at, sp.updated_at,
               pp.id, pp.name, pp.code, pp.website, pp.active
        FROM social_posts sp
        LEFT JOIN post_platforms pp ON pp.id = sp.platform_id
        WHERE sp.pin_category = $1 AND sp.pin_id = $2 AND sp.published = true
        ORDER BY sp.created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, ref.Category, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for pin %s: %w", ref.ID, err)
	}
	defer rows.Close()

	var posts []models.SocialPost
	for rows.Next() {
		var p models.SocialPost
		var platID *uuid.UUID
		var platName, platCode, platWebsite *string
		var platActive *bool
		err := rows.Scan(
			&p.ID, &p.Name, &p.PlatformID, &p.Link, &p.Description,
			&p.Language, &p.Published, &p.Tags, &p.CreatedAt, &p.UpdatedAt,
			&platID, &platName, &platCode, &platWebsite, &platActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan social post: %w", err)
		}
		if platID != nil {
			p.Platform = &models.PostPlatform{
				ID:     *platID,
				Name:   *platName,
				Code:   *platCode,
				Active: *platActive,
			}
			if platWebsite != nil {
				p.Platform.Website = *platWebsite
			}
		}
		refCopy := ref
		p.Pin = &refCopy
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *RepositoryImpl) GetPlatformByName(ctx context.Context, name string) (*models.PostPlatform, error) {
	return r.getPlatform(ctx, `LOWER(name) = LOWER($1)`, name)
}

func (r *RepositoryImpl) GetPlatformByCode(ctx context.Context, code string) (*models.PostPlatform, error) {
	return r.getPlatform(ctx, `LOWER(code) = LOWER($1)`, code)
}

func (r *RepositoryImpl) getPlatform(ctx context.Context, predicate, value string) (*models.PostPlatform, error) {
	query := `
        SELECT id, name, code, COALESCE(website, ''), active, created_at
        FROM post_platforms
        WHERE ` + predicate + `
    `
	var p models.PostPlatform
	err := r.pgpool.QueryRow(ctx, query, value).Scan(
		&p.ID, &p.Name, &p.Code, &p.Website, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform %q: %w", value, err)
	}
	return &p, nil
}

func (r *RepositoryImpl) ListPlatformNames(ctx context.Context) ([]string, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT name FROM post_platforms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list platform names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan platform name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *RepositoryImpl) ListPlatforms(ctx context.Context) ([]models.PostPlatform, error) {
	query := `
        SELECT id, name, code, COALESCE(website, ''), active, created_at
        FROM post_platforms
        ORDER BY name
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	defer rows.Close()

	var platforms []models.PostPlatform
	for rows.Next() {
		var p models.PostPlatform
		err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Website, &p.Active, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

func (r *RepositoryImpl) CreatePlatform(ctx context.Context, name, code string) (*models.PostPlatform, error) {
	query := `
        INSERT INTO post_platforms (name, code, active)
        VALUES ($1, $2, true)
        RETURNING id, name, code, COALESCE(website, ''), active, created_at
    `
	var p models.PostPlatform
	err := r.pgpool.QueryRow(ctx, query, name, code).Scan(
		&p.ID, &p.Name, &p.Code, &p.Website, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform %q: %w", name, err)
	}

	r.logger.Info("Platform created",
		zap.String("name", p.Name),
		zap.String("code", p.Code))
	return &p, nil
}
