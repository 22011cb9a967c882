// Package geo holds the small coordinate primitives shared by the spatial
// resolver and the import pipelines.
package geo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tourato/tourato-api/internal/app/models"
)

const earthRadiusMeters = 6371000

// Point is a parsed coordinate pair in the order the source text gave it.
// Upstream data sources disagree on axis order, so callers that need a
// definite orientation must try both this and Swapped().
type Point struct {
	Lon float64
	Lat float64
}

// Swapped returns the point with its axes exchanged.
func (p Point) Swapped() Point {
	return Point{Lon: p.Lat, Lat: p.Lon}
}

// WKT renders the point back to POINT(lon lat) text.
func (p Point) WKT() string {
	return fmt.Sprintf("POINT(%g %g)", p.Lon, p.Lat)
}

var pointPattern = regexp.MustCompile(`POINT\s*\(\s*(-?[\d.]+)\s+(-?[\d.]+)\s*\)`)

// ParsePoint extracts a coordinate pair from a POINT(a b) geometry string.
// Stray commas between the numbers are tolerated. The first number lands in
// Lon and the second in Lat, matching the textual order without asserting
// which axis is which.
func ParsePoint(s string) (Point, error) {
	if strings.TrimSpace(s) == "" {
		return Point{}, fmt.Errorf("empty geometry: %w", models.ErrParse)
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", " ")
	m := pointPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return Point{}, fmt.Errorf("geometry %q does not match POINT(a b): %w", s, models.ErrParse)
	}
	a, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("geometry %q coordinate %q: %w", s, m[1], models.ErrParse)
	}
	b, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Point{}, fmt.Errorf("geometry %q coordinate %q: %w", s, m[2], models.ErrParse)
	}
	return Point{Lon: a, Lat: b}, nil
}

// Haversine returns the great-circle distance in meters between two
// lon/lat points.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	rlon1 := lon1 * math.Pi / 180
	rlat1 := lat1 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180

	dlon := rlon2 - rlon1
	dlat := rlat2 - rlat1

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusMeters * c
}

// ValidLatLon reports whether the pair is a plausible (lat, lon) reading.
func ValidLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
