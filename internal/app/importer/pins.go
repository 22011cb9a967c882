package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/app/domain/location"
	"github.com/tourato/tourato-api/internal/app/domain/pin"
	"github.com/tourato/tourato-api/internal/app/models"
	"github.com/tourato/tourato-api/internal/pkg/config"
	"github.com/tourato/tourato-api/internal/pkg/geo"
	"github.com/tourato/tourato-api/internal/pkg/geocode"
)

// Geocoder is the reverse-geocoding dependency. Lookups degrade to an
// empty Address, never an error.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) geocode.Address
}

// PinImporter reconciles a pins CSV export against the store: each row is
// parsed, its location hierarchy resolved (creating countries, states and
// cities as needed), checked against nearby pins in any category, and
// created unpublished when it is genuinely new.
type PinImporter struct {
	locations *location.Matcher
	pins      pin.Repository
	geocoder  Geocoder
	cfg       config.ImportConfig
	logger    *zap.Logger
	out       io.Writer
}

func NewPinImporter(locations *location.Matcher, pins pin.Repository, geocoder Geocoder, cfg config.ImportConfig, logger *zap.Logger, out io.Writer) *PinImporter {
	return &PinImporter{
		locations: locations,
		pins:      pins,
		geocoder:  geocoder,
		cfg:       cfg,
		logger:    logger,
		out:       out,
	}
}

// Run imports the file at path. Row failures count as skips; only a
// missing file or a broken header aborts.
func (i *PinImporter) Run(ctx context.Context, path string, opts Options) (Summary, error) {
	rows, err := openRows(path, opts.Limit)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(rows)}
	fmt.Fprintf(i.out, "Starting import of %d records...\n", sum.Total)

	for idx, row := range rows {
		res := i.importRow(ctx, row, opts.ReverseGeocode)

		status := "⊘ SKIPPED"
		if res.Success {
			sum.Created++
			status = "✓ CREATED"
		} else {
			sum.Skipped++
		}
		fmt.Fprintf(i.out, "[%d/%d] %s: %s (%s)\n", idx+1, sum.Total, status, res.Name, res.Category)
		if res.Message != "" {
			fmt.Fprintf(i.out, "  → %s\n", res.Message)
		}
	}

	fmt.Fprintf(i.out, "\nImport Complete!\nTotal: %d | Created: %d | Skipped: %d\n",
		sum.Total, sum.Created, sum.Skipped)
	return sum, nil
}

func (i *PinImporter) importRow(ctx context.Context, row Row, reverseGeocode bool) RowResult {
	placeName := row.Get("placeName")
	categoryName := row.Get("category_name")
	ratingStr := row.Get("rating")
	geomStr := row.Get("location_geometry")

	if placeName == "" {
		return RowResult{Name: "N/A", Category: categoryName, Message: "Missing placeName"}
	}

	category, ok := models.CategoryFromDisplay(categoryName)
	if !ok {
		return RowResult{
			Name:     placeName,
			Category: categoryName,
			Message:  fmt.Sprintf("Unknown category: %s", categoryName),
		}
	}

	point, err := geo.ParsePoint(geomStr)
	if err != nil {
		return RowResult{Name: placeName, Category: categoryName, Message: "Invalid location_geometry format"}
	}

	countryName := row.Get("country")
	stateName := row.Get("state")
	cityName := row.Get("city")
	if reverseGeocode {
		addr := i.geocoder.Reverse(ctx, point.Lat, point.Lon)
		if addr.Country != "" {
			countryName = addr.Country
		}
		if addr.State != "" {
			stateName = addr.State
		}
		if addr.City != "" {
			cityName = addr.City
		}
	}

	country, err := i.locations.ResolveCountry(ctx, countryName, point)
	if err != nil {
		return i.rowError(placeName, categoryName, "Could not determine country", err)
	}
	if country == nil {
		return RowResult{Name: placeName, Category: categoryName, Message: "Could not determine country"}
	}

	// A missing state or city never skips the row: the parent's name
	// stands in so the hierarchy stays navigable.
	if stateName == "" {
		stateName = country.Name
	}
	state, err := i.locations.ResolveState(ctx, country, stateName)
	if err != nil || state == nil {
		return i.rowError(placeName, categoryName,
			fmt.Sprintf("Could not determine state for %s", country.Name), err)
	}

	if cityName == "" {
		cityName = state.Name
	}
	city, err := i.locations.ResolveCity(ctx, state, cityName)
	if err != nil || city == nil {
		return i.rowError(placeName, categoryName,
			fmt.Sprintf("Could not determine city for %s", state.Name), err)
	}

	var rating *float64
	if ratingStr != "" {
		if v, err := strconv.ParseFloat(ratingStr, 64); err == nil {
			rating = &v
		}
	}

	// Any pin of any category within tolerance of this point in the same
	// city makes the row a duplicate. The row's own category is reported
	// first when both kinds exist.
	nearby, err := i.pins.DuplicateCategoriesNear(ctx, city.ID, point.Lon, point.Lat, i.cfg.DuplicateToleranceMeters)
	if err != nil {
		i.logger.Warn("duplicate check failed, proceeding to create",
			zap.String("name", placeName), zap.Error(err))
		nearby = nil
	}
	if dup, ok := duplicateCategory(nearby, category); ok {
		return RowResult{
			Name:     placeName,
			Category: categoryName,
			Message: fmt.Sprintf("Duplicate point exists in %s (within %.0fm)",
				dup.Display(), i.cfg.DuplicateToleranceMeters),
		}
	}

	p := &models.Pin{
		Category:  category,
		Name:      placeName,
		CityID:    city.ID,
		Latitude:  point.Lat,
		Longitude: point.Lon,
		Slug:      pin.NewSlug(category, placeName),
		Rating:    rating,
		Published: false,
	}
	if _, err := i.pins.CreatePin(ctx, p); err != nil {
		return i.rowError(placeName, categoryName, "Error creating record", err)
	}

	return RowResult{
		Success:  true,
		Name:     placeName,
		Category: categoryName,
		Message:  fmt.Sprintf("%s > %s > %s", country.Name, state.Name, city.Name),
	}
}

func (i *PinImporter) rowError(name, category, message string, err error) RowResult {
	if err != nil {
		i.logger.Error(message, zap.String("name", name), zap.Error(err))
		message = fmt.Sprintf("%s: %s", message, truncateMessage(err.Error(), 50))
	}
	return RowResult{Name: name, Category: category, Message: message}
}

// duplicateCategory picks which category to blame for a duplicate point:
// the row's own category when present, otherwise the first other one.
func duplicateCategory(nearby []models.Category, own models.Category) (models.Category, bool) {
	if len(nearby) == 0 {
		return "", false
	}
	for _, c := range nearby {
		if c == own {
			return c, true
		}
	}
	return nearby[0], true
}
