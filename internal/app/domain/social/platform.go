package social

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tourato/tourato-api/internal/app/models"
	"github.com/tourato/tourato-api/internal/pkg/fuzzy"
)

// PlatformResolver maps free-text platform names from CSV rows onto
// platform registry rows. Resolution order: exact name, exact code, fuzzy
// name, create. The fuzzy cutoff is looser than the location one because
// platform spellings vary more ("Insta", "IG", "instagram").
type PlatformResolver struct {
	repo      Repository
	threshold float64
	sim       fuzzy.Similarity
	logger    *zap.Logger
}

func NewPlatformResolver(repo Repository, threshold float64, logger *zap.Logger) *PlatformResolver {
	return &PlatformResolver{
		repo:      repo,
		threshold: threshold,
		sim:       fuzzy.Ratio,
		logger:    logger,
	}
}

// WithSimilarity swaps the scoring strategy, for tests.
func (r *PlatformResolver) WithSimilarity(sim fuzzy.Similarity) *PlatformResolver {
	r.sim = sim
	return r
}

// Resolve returns the platform for the given free text, creating one when
// nothing matches. Empty text resolves to no platform at all.
func (r *PlatformResolver) Resolve(ctx context.Context, text string) (*models.PostPlatform, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	p, err := r.repo.GetPlatformByName(ctx, text)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	p, err = r.repo.GetPlatformByCode(ctx, text)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	names, err := r.repo.ListPlatformNames(ctx)
	if err != nil {
		return nil, err
	}
	if match, ok := fuzzy.BestMatch(text, names, r.threshold, r.sim); ok {
		r.logger.Info("Platform matched fuzzily",
			zap.String("input", text),
			zap.String("matched", match))
		return r.repo.GetPlatformByName(ctx, match)
	}

	name := cases.Title(language.Und).String(text)
	code := strings.ToLower(truncate(text, 10))
	created, err := r.repo.CreatePlatform(ctx, name, code)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform for %q: %w", text, err)
	}
	return created, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
