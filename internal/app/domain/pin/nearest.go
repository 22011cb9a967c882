package pin

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tourato/tourato-api/internal/app/models"
	"github.com/tourato/tourato-api/internal/pkg/config"
	"github.com/tourato/tourato-api/internal/pkg/geo"
)

// SpatialSearcher is the slice of the pin repository the resolver needs.
type SpatialSearcher interface {
	FindWithinRadius(ctx context.Context, category models.Category, lon, lat, radiusMeters float64, limit int) ([]models.PinCandidate, error)
	FindExactPoint(ctx context.Context, category models.Category, lon, lat float64, limit int) ([]models.PinCandidate, error)
	ScanSample(ctx context.Context, category models.Category, limit int) ([]models.Pin, error)
}

// NearestResolver finds pins near a target coordinate by escalating
// through the configured radius ladder across all categories, trying both
// axis orders because upstream coordinate order is unreliable. The first
// non-empty tier wins. When the indexed search comes up empty everywhere
// it falls back to an unindexed haversine scan over a bounded sample.
type NearestResolver struct {
	repo   SpatialSearcher
	cfg    config.ImportConfig
	logger *zap.Logger
}

func NewNearestResolver(repo SpatialSearcher, cfg config.ImportConfig, logger *zap.Logger) *NearestResolver {
	return &NearestResolver{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// FindCandidates returns the candidates of the first non-empty radius
// tier, sorted nearest first. Escalation stops as soon as any tier yields
// results; later tiers are never consulted. An empty result means every
// tier, including the fallback scan, found nothing.
func (r *NearestResolver) FindCandidates(ctx context.Context, target geo.Point) ([]models.PinCandidate, error) {
	// Evaluation order is significant: the parsed orientation is always
	// tried before the swapped one within each category.
	points := [2]geo.Point{target, target.Swapped()}

	for _, tol := range r.cfg.RadiusLadderMeters {
		var tier []models.PinCandidate
		for _, category := range models.Categories() {
			for _, p := range points {
				found, err := r.search(ctx, category, p, tol)
				if err != nil {
					// A failing category collection must not sink the
					// whole search; the remaining twelve still count.
					r.logger.Warn("spatial search failed for category",
						zap.String("category", string(category)),
						zap.Float64("radius_m", tol),
						zap.Error(err))
					continue
				}
				tier = append(tier, found...)
			}
		}
		if len(tier) > 0 {
			sortCandidates(tier)
			return tier, nil
		}
	}

	return r.fallbackScan(ctx, points)
}

// Resolve finds candidates for the target and picks the single winner
// using the category hint. Returns ErrNoCandidate when nothing lies
// within any tier.
func (r *NearestResolver) Resolve(ctx context.Context, target geo.Point, categoryHint string) (*models.PinCandidate, error) {
	cands, err := r.FindCandidates(ctx, target)
	if err != nil {
		return nil, err
	}
	return ResolveCandidate(cands, categoryHint)
}

func (r *NearestResolver) search(ctx context.Context, category models.Category, p geo.Point, tol float64) ([]models.PinCandidate, error) {
	if tol == 0 {
		return r.repo.FindExactPoint(ctx, category, p.Lon, p.Lat, r.cfg.CandidatesPerCategory)
	}
	return r.repo.FindWithinRadius(ctx, category, p.Lon, p.Lat, tol, r.cfg.CandidatesPerCategory)
}

// fallbackScan is the last resort when the indexed queries return nothing:
// a linear pass over a bounded sample of each category, accepting the
// minimum haversine distance over both orientations within the fallback
// radius. Categories are scanned concurrently; the pipeline itself stays
// sequential per row.
func (r *NearestResolver) fallbackScan(ctx context.Context, points [2]geo.Point) ([]models.PinCandidate, error) {
	categories := models.Categories()
	perCategory := make([][]models.PinCandidate, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			pins, err := r.repo.ScanSample(gctx, category, r.cfg.FallbackScanLimit)
			if err != nil {
				r.logger.Warn("fallback scan failed for category",
					zap.String("category", string(category)),
					zap.Error(err))
				return nil
			}
			for _, p := range pins {
				d1 := geo.Haversine(points[0].Lon, points[0].Lat, p.Longitude, p.Latitude)
				d2 := geo.Haversine(points[1].Lon, points[1].Lat, p.Longitude, p.Latitude)
				dist := d1
				if d2 < dist {
					dist = d2
				}
				if dist <= r.cfg.FallbackRadiusMeters {
					d := dist
					perCategory[i] = append(perCategory[i], models.PinCandidate{Pin: p, Distance: &d})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.PinCandidate
	for _, cands := range perCategory {
		out = append(out, cands...)
	}
	if len(out) > 0 {
		sortCandidates(out)
	}
	return out, nil
}
