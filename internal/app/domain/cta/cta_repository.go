package cta

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository reads curated call-to-action buttons.
type Repository interface {
	ListButtonsForPin(ctx context.Context, ref models.PinRef) ([]models.CTAButton, error)
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

func (r *RepositoryImpl) ListButtonsForPin(ctx context.Context, ref models.PinRef) ([]models.CTAButton, error) {
	query := `
        SELECT b.id, b.text, COALESCE(b.btncolor, ''), b.url, b.category_id,
               cc.name, b.btn_ranking, b.cat_ranking, b.btn_size
        FROM cta_buttons b
        JOIN cta_categories cc ON cc.id = b.category_id
        WHERE b.pin_category = $1 AND b.pin_id = $2 AND b.published = true
        ORDER BY b.cat_ranking, b.btn_ranking
    `
	rows, err := r.pgpool.Query(ctx, query, ref.Category, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cta buttons for pin %s: %w", ref.ID, err)
	}
	defer rows.Close()

	var buttons []models.CTAButton
	for rows.Next() {
		b := models.CTAButton{Pin: ref, Published: true}
		err := rows.Scan(
			&b.ID, &b.Text, &b.BtnColor, &b.URL, &b.CategoryID,
			&b.Category, &b.BtnRanking, &b.CatRanking, &b.BtnSize,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cta button: %w", err)
		}
		buttons = append(buttons, b)
	}
	return buttons, rows.Err()
}
