package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// ImportConfig holds the tuning knobs for the CSV import pipelines.
// Every value has a default matching the production batch behaviour and
// can be overridden through the environment for testing.
type ImportConfig struct {
	// FuzzyThreshold is the minimum normalized similarity for a location
	// name to be considered a match instead of creating a new entity.
	FuzzyThreshold float64
	// PlatformFuzzyThreshold is the looser cutoff used for platform names.
	PlatformFuzzyThreshold float64
	// DuplicateToleranceMeters is the radius within which two pins in the
	// same city are treated as the same point.
	DuplicateToleranceMeters float64
	// RadiusLadderMeters is the progressive search escalation for linking
	// social posts to pins. 0 means exact point equality.
	RadiusLadderMeters []float64
	// FallbackScanLimit bounds the unindexed per-category scan.
	FallbackScanLimit int
	// FallbackRadiusMeters is the acceptance radius for the unindexed scan.
	FallbackRadiusMeters float64
	// CandidatesPerCategory caps candidates collected per category per tier.
	CandidatesPerCategory int

	NominatimBaseURL string
	NominatimTimeout time.Duration
	UserAgent        string
}

type Config struct {
	Repositories RepositoriesConfig
	ServerPort   string
	MetricsPort  string
	PprofPort    string
	Import       ImportConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "tourato"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", ":9092"),
		PprofPort:   getEnvOrDefault("PPROF_PORT", ":6060"),
		Import:      LoadImportConfig(),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

// LoadImportConfig builds the import configuration from the environment
// with production defaults. It never fails; bad values fall back.
func LoadImportConfig() ImportConfig {
	return ImportConfig{
		FuzzyThreshold:           getEnvFloat("IMPORT_FUZZY_THRESHOLD", 0.75),
		PlatformFuzzyThreshold:   getEnvFloat("IMPORT_PLATFORM_FUZZY_THRESHOLD", 0.7),
		DuplicateToleranceMeters: getEnvFloat("IMPORT_DUPLICATE_TOLERANCE_M", 10),
		RadiusLadderMeters:       getEnvFloats("IMPORT_RADIUS_LADDER_M", []float64{0, 10, 50, 200, 1000}),
		FallbackScanLimit:        getEnvInt("IMPORT_FALLBACK_SCAN_LIMIT", 2000),
		FallbackRadiusMeters:     getEnvFloat("IMPORT_FALLBACK_RADIUS_M", 1000),
		CandidatesPerCategory:    5,
		NominatimBaseURL:         getEnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimTimeout:         10 * time.Second,
		UserAgent:                getEnvOrDefault("NOMINATIM_USER_AGENT", "tourato-api/1.0"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvFloats parses a comma-separated list of numbers. Any unparsable
// element discards the whole value in favor of the default.
func getEnvFloats(key string, defaultValue []float64) []float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return defaultValue
		}
		out = append(out, f)
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
