// Package geocode wraps the Nominatim reverse-geocoding HTTP API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/tourato/tourato-api/internal/pkg/config"
)

// Address is the best-effort (country, state, city) triple for a
// coordinate. All fields empty means the lookup failed or resolved
// nothing; callers fall back to their CSV values.
type Address struct {
	Country string
	State   string
	City    string
}

// Nominatim is the reverse geocoder. Lookups are memoized per rounded
// coordinate so a batch never re-queries the same point, per the service's
// usage policy.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     *cache.Cache
	logger    *zap.Logger
	lookups   atomic.Int64
}

func NewNominatim(cfg config.ImportConfig, logger *zap.Logger) *Nominatim {
	return &Nominatim{
		baseURL:   cfg.NominatimBaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.NominatimTimeout},
		cache:     cache.New(time.Hour, 10*time.Minute),
		logger:    logger,
	}
}

// nominatimResponse mirrors the subset of the /reverse payload we read.
// Address field names are locale dependent; the state and city fallbacks
// cover the variants seen in practice.
type nominatimResponse struct {
	Address struct {
		Country  string `json:"country"`
		State    string `json:"state"`
		Province string `json:"province"`
		Region   string `json:"region"`
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
	} `json:"address"`
}

// Reverse resolves (lat, lon) to an Address. It never returns an error:
// network failures, timeouts and malformed responses all degrade to an
// empty Address so a geocoding outage cannot abort an import batch.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) Address {
	key := fmt.Sprintf("%.5f,%.5f", lat, lon)
	if cached, ok := n.cache.Get(key); ok {
		return cached.(Address)
	}

	addr, err := n.reverse(ctx, lat, lon)
	if err != nil {
		n.logger.Warn("reverse geocoding failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		return Address{}
	}

	n.cache.SetDefault(key, addr)
	return addr
}

// Lookups reports how many requests actually went upstream. Memoized
// hits are not counted.
func (n *Nominatim) Lookups() int64 {
	return n.lookups.Load()
}

func (n *Nominatim) reverse(ctx context.Context, lat, lon float64) (Address, error) {
	n.lookups.Add(1)
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("format", "json")
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return Address{}, err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return Address{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, err
	}

	a := body.Address
	return Address{
		Country: a.Country,
		State:   firstNonEmpty(a.State, a.Province, a.Region),
		City:    firstNonEmpty(a.City, a.Town, a.Village, a.Region),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
