package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/domain/social"
	"github.com/tourato/tourato-api/internal/app/models"
	"github.com/tourato/tourato-api/internal/pkg/geo"
)

// PinResolver finds the pin a post's coordinate belongs to.
type PinResolver interface {
	Resolve(ctx context.Context, target geo.Point, categoryHint string) (*models.PinCandidate, error)
}

// HierarchyLookup resolves a city's ancestors so posts can inherit the
// matched pin's location.
type HierarchyLookup interface {
	Hierarchy(ctx context.Context, cityID uuid.UUID) (*models.CityHierarchy, error)
}

// PostImporter links social posts from a CSV export to already-imported
// pins. A post is only ever created attached to a pin; rows whose
// coordinate matches nothing are skipped, and the link column is the
// idempotency key across reruns.
type PostImporter struct {
	posts     social.Repository
	platforms *social.PlatformResolver
	nearest   PinResolver
	hierarchy HierarchyLookup
	logger    *zap.Logger
	out       io.Writer
}

func NewPostImporter(posts social.Repository, platforms *social.PlatformResolver, nearest PinResolver, hierarchy HierarchyLookup, logger *zap.Logger, out io.Writer) *PostImporter {
	return &PostImporter{
		posts:     posts,
		platforms: platforms,
		nearest:   nearest,
		hierarchy: hierarchy,
		logger:    logger,
		out:       out,
	}
}

// Run imports the file at path.
func (i *PostImporter) Run(ctx context.Context, path string, opts Options) (Summary, error) {
	rows, err := openRows(path, opts.Limit)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(rows)}
	for idx, row := range rows {
		res := i.importRow(ctx, row)

		status := "⊘ SKIPPED"
		if res.Success {
			sum.Created++
			status = "✓ CREATED"
		} else {
			sum.Skipped++
		}
		fmt.Fprintf(i.out, "[%d/%d] %s: %s -> %s\n", idx+1, sum.Total, status, res.Name, res.Message)
	}

	fmt.Fprintf(i.out, "Import complete. Total: %d | Created: %d | Skipped: %d\n",
		sum.Total, sum.Created, sum.Skipped)
	return sum, nil
}

func (i *PostImporter) importRow(ctx context.Context, row Row) RowResult {
	platformText := row.Get("platform")
	link := row.Get("link")
	name := row.First("reel_place_name", "location_name")
	language := row.Get("language")
	geomStr := row.Get("location_geometry")
	categoryHint := row.Get("category_name")

	if link == "" {
		return RowResult{Name: "N/A", Message: "Missing link"}
	}

	exists, err := i.posts.LinkExists(ctx, link)
	if err != nil {
		return i.rowError(link, "Failed to check link", err)
	}
	if exists {
		return RowResult{Name: link, Message: "Link already imported"}
	}

	point, err := geo.ParsePoint(geomStr)
	if err != nil {
		return RowResult{Name: link, Message: "Invalid location_geometry"}
	}

	chosen, err := i.nearest.Resolve(ctx, point, categoryHint)
	if err != nil {
		if errors.Is(err, models.ErrNoCandidate) {
			return RowResult{Name: link, Message: "No nearby pin found; skipped"}
		}
		return i.rowError(link, "Failed to search pins", err)
	}

	platform, err := i.platforms.Resolve(ctx, platformText)
	if err != nil {
		return i.rowError(link, "Failed to resolve platform", err)
	}

	post := &models.SocialPost{
		Name:      name,
		Link:      link,
		Language:  language,
		Published: false,
		Pin: &models.PinRef{
			Category: chosen.Pin.Category,
			ID:       chosen.Pin.ID,
		},
	}
	if post.Name == "" {
		post.Name = link
	}
	if platform != nil {
		post.PlatformID = &platform.ID
	}

	// The post inherits the matched pin's whole location hierarchy.
	if h, err := i.hierarchy.Hierarchy(ctx, chosen.Pin.CityID); err != nil {
		i.logger.Warn("failed to resolve pin hierarchy",
			zap.String("link", link), zap.Error(err))
	} else if h != nil {
		cityID, stateID, countryID := h.CityID, h.StateID, h.CountryID
		post.CityID = &cityID
		post.StateID = &stateID
		post.CountryID = &countryID
	}

	if _, err := i.posts.CreatePost(ctx, post); err != nil {
		return i.rowError(link, "Error saving post", err)
	}

	dist := "unknown"
	if chosen.Distance != nil {
		dist = fmt.Sprintf("%.1f", *chosen.Distance)
	}
	return RowResult{
		Success:  true,
		Name:     link,
		Category: string(chosen.Pin.Category),
		Message: fmt.Sprintf("Linked to %s id=%s dist_m=%s",
			chosen.Pin.Category.Display(), chosen.Pin.ID, dist),
	}
}

func (i *PostImporter) rowError(link, message string, err error) RowResult {
	i.logger.Error(message, zap.String("link", link), zap.Error(err))
	return RowResult{Name: link, Message: fmt.Sprintf("%s: %s", message, truncateMessage(err.Error(), 120))}
}
