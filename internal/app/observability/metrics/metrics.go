package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	SearchRequestsTotal metric.Int64Counter
	PinsImportedTotal   metric.Int64Counter
	PinsSkippedTotal    metric.Int64Counter
	PostsImportedTotal  metric.Int64Counter
	PostsSkippedTotal   metric.Int64Counter
	GeocodeLookupsTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments only once,
// using the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tourato-api")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.SearchRequestsTotal, err = meter.Int64Counter(
			"search_requests_total",
			metric.WithDescription("Total number of pin search requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create search_requests_total: %v", err)
		}

		m.PinsImportedTotal, err = meter.Int64Counter(
			"pins_imported_total",
			metric.WithDescription("Total number of pins created by CSV imports"),
			metric.WithUnit("{pin}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pins_imported_total: %v", err)
		}

		m.PinsSkippedTotal, err = meter.Int64Counter(
			"pins_skipped_total",
			metric.WithDescription("Total number of pin rows skipped by CSV imports"),
			metric.WithUnit("{row}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pins_skipped_total: %v", err)
		}

		m.PostsImportedTotal, err = meter.Int64Counter(
			"posts_imported_total",
			metric.WithDescription("Total number of social posts linked by CSV imports"),
			metric.WithUnit("{post}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create posts_imported_total: %v", err)
		}

		m.PostsSkippedTotal, err = meter.Int64Counter(
			"posts_skipped_total",
			metric.WithDescription("Total number of social post rows skipped by CSV imports"),
			metric.WithUnit("{row}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create posts_skipped_total: %v", err)
		}

		m.GeocodeLookupsTotal, err = meter.Int64Counter(
			"geocode_lookups_total",
			metric.WithDescription("Total number of reverse geocode lookups issued"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_lookups_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
