// Package config provides configuration loading for the coverage API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"
)

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	// HTTP listen address
	ListenAddr string

	// Deployment environment name ("development", "production", ...)
	Environment string

	// Survey dataset location and layout. Delimiter and column names are a
	// contract with the data provider.
	DatasetPath    string
	CSVDelimiter   string
	OperatorColumn string
	XColumn        string
	YColumn        string
	Column2G       string
	Column3G       string
	Column4G       string

	// Derived catalog cache artifact location
	CachePath string

	// Optional YAML file overriding the built-in operator table
	OperatorsFile string

	// Nearest-site search thresholds in kilometers
	MaxDistanceKm          float64
	SatisfactoryDistanceKm float64

	// Geocoding collaborator
	GeocoderBaseURL        string
	GeocoderTimeout        time.Duration
	GeocoderRequestsPerSec float64
	UserAgent              string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// OpenTelemetry
	OTLPEndpoint string
	OTelEnabled  bool
}

// Load reads configuration from environment variables, applying the reference
// deployment's defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatasetPath:    getEnv("DATASET_PATH", "data/coverage_sites.csv"),
		CSVDelimiter:   getEnv("DATASET_DELIMITER", ";"),
		OperatorColumn: getEnv("DATASET_COLUMN_OPERATOR", "Operateur"),
		XColumn:        getEnv("DATASET_COLUMN_X", "x"),
		YColumn:        getEnv("DATASET_COLUMN_Y", "y"),
		Column2G:       getEnv("DATASET_COLUMN_2G", "2G"),
		Column3G:       getEnv("DATASET_COLUMN_3G", "3G"),
		Column4G:       getEnv("DATASET_COLUMN_4G", "4G"),

		CachePath:     getEnv("CACHE_PATH", "data/cache/coverage_catalog.json"),
		OperatorsFile: getEnv("OPERATORS_FILE", ""),

		MaxDistanceKm:          getEnvFloat("COVERAGE_MAX_DISTANCE_KM", 20),
		SatisfactoryDistanceKm: getEnvFloat("COVERAGE_SATISFACTORY_DISTANCE_KM", 5),

		GeocoderBaseURL:        getEnv("GEOCODER_BASE_URL", "https://api-adresse.data.gouv.fr"),
		GeocoderTimeout:        getEnvDuration("GEOCODER_TIMEOUT", 10*time.Second),
		GeocoderRequestsPerSec: getEnvFloat("GEOCODER_REQUESTS_PER_SEC", 10),
		UserAgent:              getEnv("GEOCODER_USER_AGENT", "covermap/1.0"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogOutput: getEnv("LOG_OUTPUT", "stdout"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		OTelEnabled:  getEnv("OTEL_ENABLED", "false") == "true",
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Delimiter returns the dataset delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func (c *Config) validate() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if c.CachePath == "" {
		return fmt.Errorf("CACHE_PATH is required")
	}
	if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
		return fmt.Errorf("DATASET_DELIMITER must be a single character, got %q", c.CSVDelimiter)
	}
	if c.MaxDistanceKm <= 0 {
		return fmt.Errorf("COVERAGE_MAX_DISTANCE_KM must be positive")
	}
	if c.SatisfactoryDistanceKm <= 0 || c.SatisfactoryDistanceKm > c.MaxDistanceKm {
		return fmt.Errorf("COVERAGE_SATISFACTORY_DISTANCE_KM must be in (0, COVERAGE_MAX_DISTANCE_KM]")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
