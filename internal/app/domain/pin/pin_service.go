package pin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/domain/cta"
	"github.com/tourato/tourato-api/internal/app/domain/social"
	"github.com/tourato/tourato-api/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Detail is the single-pin read payload: the pin, its published posts and
// the union of curated and derived call-to-action buttons.
type Detail struct {
	Pin     models.Pin          `json:"pin"`
	Posts   []models.SocialPost `json:"social_posts"`
	Buttons []models.CTAButton  `json:"cta_buttons"`
}

// Service is the read-side contract for pins.
type Service interface {
	ListAll(ctx context.Context) ([]models.Pin, error)
	ListByCategory(ctx context.Context, table string) ([]models.Pin, error)
	Search(ctx context.Context, query string) ([]models.Pin, error)
	GetDetail(ctx context.Context, slug string) (*Detail, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repo       Repository
	socialRepo social.Repository
	ctaRepo    cta.Repository
}

func NewService(repo Repository, socialRepo social.Repository, ctaRepo cta.Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		socialRepo: socialRepo,
		ctaRepo:    ctaRepo,
	}
}

func (s *ServiceImpl) ListAll(ctx context.Context) ([]models.Pin, error) {
	return s.repo.List(ctx, models.PinFilter{PublishedOnly: true})
}

// ListByCategory accepts the public path segment (e.g. "main_attractions").
func (s *ServiceImpl) ListByCategory(ctx context.Context, table string) ([]models.Pin, error) {
	category, ok := models.CategoryFromTableName(table)
	if !ok {
		return nil, fmt.Errorf("table %q: %w", table, models.ErrUnknownCategory)
	}
	return s.repo.List(ctx, models.PinFilter{
		Category:      &category,
		PublishedOnly: true,
	})
}

func (s *ServiceImpl) Search(ctx context.Context, query string) ([]models.Pin, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", models.ErrBadRequest)
	}
	return s.repo.List(ctx, models.PinFilter{
		NameSubstring: query,
		PublishedOnly: true,
	})
}

func (s *ServiceImpl) GetDetail(ctx context.Context, slug string) (*Detail, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	ref := models.PinRef{Category: p.Category, ID: p.ID}

	posts, err := s.socialRepo.ListPostsForPin(ctx, ref)
	if err != nil {
		// Posts and buttons enrich the payload; a failure there must not
		// hide the pin itself.
		s.logger.Warn("failed to load posts for pin", zap.String("slug", slug), zap.Error(err))
		posts = nil
	}

	stored, err := s.ctaRepo.ListButtonsForPin(ctx, ref)
	if err != nil {
		s.logger.Warn("failed to load cta buttons for pin", zap.String("slug", slug), zap.Error(err))
		stored = nil
	}

	return &Detail{
		Pin:     *p,
		Posts:   posts,
		Buttons: append(stored, cta.ComputeButtons(p)...),
	}, nil
}
