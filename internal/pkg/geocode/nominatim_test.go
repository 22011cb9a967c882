package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/pkg/config"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) (*Nominatim, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.LoadImportConfig()
	cfg.NominatimBaseURL = srv.URL
	cfg.NominatimTimeout = 2 * time.Second
	return NewNominatim(cfg, zap.NewNop()), srv
}

func TestReverseResolvesAddress(t *testing.T) {
	var gotQuery map[string]string
	n, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"lat":            r.URL.Query().Get("lat"),
			"lon":            r.URL.Query().Get("lon"),
			"format":         r.URL.Query().Get("format"),
			"zoom":           r.URL.Query().Get("zoom"),
			"addressdetails": r.URL.Query().Get("addressdetails"),
			"user_agent":     r.Header.Get("User-Agent"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":{"country":"India","state":"Delhi","city":"Delhi"}}`))
	})

	addr := n.Reverse(context.Background(), 28.6562, 77.2410)
	assert.Equal(t, "India", addr.Country)
	assert.Equal(t, "Delhi", addr.State)
	assert.Equal(t, "Delhi", addr.City)

	require.NotNil(t, gotQuery)
	assert.Equal(t, "json", gotQuery["format"])
	assert.Equal(t, "10", gotQuery["zoom"])
	assert.Equal(t, "1", gotQuery["addressdetails"])
	assert.NotEmpty(t, gotQuery["user_agent"])
}

func TestReverseFieldFallbacks(t *testing.T) {
	n, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"country":"Portugal","province":"Norte","town":"Braga"}}`))
	})

	addr := n.Reverse(context.Background(), 41.5454, -8.4265)
	assert.Equal(t, "Portugal", addr.Country)
	assert.Equal(t, "Norte", addr.State, "province substitutes for state")
	assert.Equal(t, "Braga", addr.City, "town substitutes for city")
}

func TestReverseRegionFallsBackForBoth(t *testing.T) {
	n, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"country":"Iceland","region":"Westfjords"}}`))
	})

	addr := n.Reverse(context.Background(), 65.9, -22.4)
	assert.Equal(t, "Westfjords", addr.State)
	assert.Equal(t, "Westfjords", addr.City)
}

func TestReverseDegradesOnServerError(t *testing.T) {
	n, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	addr := n.Reverse(context.Background(), 1, 2)
	assert.Equal(t, Address{}, addr)
}

func TestReverseDegradesOnMalformedBody(t *testing.T) {
	n, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	addr := n.Reverse(context.Background(), 1, 2)
	assert.Equal(t, Address{}, addr)
}

func TestReverseCachesPerCoordinate(t *testing.T) {
	calls := 0
	n, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"address":{"country":"India","state":"Delhi","city":"Delhi"}}`))
	})

	n.Reverse(context.Background(), 28.6562, 77.2410)
	n.Reverse(context.Background(), 28.6562, 77.2410)
	assert.Equal(t, 1, calls)
}

func TestLookupsCountsUpstreamOnly(t *testing.T) {
	n, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"country":"India","state":"Delhi","city":"Delhi"}}`))
	})

	n.Reverse(context.Background(), 28.6562, 77.2410)
	n.Reverse(context.Background(), 28.6562, 77.2410)
	n.Reverse(context.Background(), 41.5454, -8.4265)
	assert.Equal(t, int64(2), n.Lookups())
}
