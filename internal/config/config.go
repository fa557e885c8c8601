package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// SourceType identifies where attendance records are loaded from.
type SourceType string

const (
	SourceCSV      SourceType = "csv"
	SourcePostgres SourceType = "postgres"
)

// Common errors
var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required for the postgres source")
	ErrUnknownSource      = errors.New("unknown attendance source")
	ErrPartialCredentials = errors.New("DASHBOARD_USER and DASHBOARD_PASSWORD_HASH must be set together")
	ErrInvalidRateLimit   = errors.New("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set")
)

// Config holds the dashboard process configuration.
//
// Environment variables:
//   - PORT: listen port (default: 80)
//   - DATA_DIR: directory holding the input files (default: ./data)
//   - ATTENDANCE_CSV, GEO_DISTRICT_FILE, GEO_SUBCOUNTY_FILE: file names inside DATA_DIR
//   - ATTENDANCE_SOURCE: "csv" or "postgres" (default: csv)
//   - DATABASE_URL: required for the postgres source
//   - KEEP_DISTRICTS: comma separated district allow-list (empty keeps every district)
//   - LAYOUT_FILE: optional YAML file overriding map and table presentation
//   - DASHBOARD_USER, DASHBOARD_PASSWORD_HASH: enables basic auth (bcrypt hash)
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST: per-process request limit (0 disables)
//   - ALLOWED_ORIGINS: comma separated CORS allow-list
//   - LOG_LEVEL: debug, info, warn or error (default: info)
type Config struct {
	Port string `env:"PORT" envDefault:"80"`

	DataDir          string `env:"DATA_DIR" envDefault:"./data"`
	AttendanceCSV    string `env:"ATTENDANCE_CSV" envDefault:"All_Data_Voice_DGF.csv"`
	DistrictGeoFile  string `env:"GEO_DISTRICT_FILE" envDefault:"geo_distr.json"`
	SubcountyGeoFile string `env:"GEO_SUBCOUNTY_FILE" envDefault:"geo_subc.json"`

	Source        SourceType `env:"ATTENDANCE_SOURCE" envDefault:"csv"`
	DatabaseURL   string     `env:"DATABASE_URL"`
	KeepDistricts []string   `env:"KEEP_DISTRICTS" envSeparator:","`

	LayoutFile string `env:"LAYOUT_FILE"`

	DashboardUser         string `env:"DASHBOARD_USER"`
	DashboardPasswordHash string `env:"DASHBOARD_PASSWORD_HASH"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadFromEnv parses the configuration from the environment and normalizes it.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Source = SourceType(strings.ToLower(strings.TrimSpace(string(cfg.Source))))
	cfg.KeepDistricts = trimAll(cfg.KeepDistricts)
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Source {
	case SourceCSV:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source)
	}
	if (c.DashboardUser == "") != (c.DashboardPasswordHash == "") {
		return ErrPartialCredentials
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// AuthEnabled reports whether basic auth credentials are configured.
func (c Config) AuthEnabled() bool {
	return c.DashboardUser != "" && c.DashboardPasswordHash != ""
}

func (c Config) AttendancePath() string   { return filepath.Join(c.DataDir, c.AttendanceCSV) }
func (c Config) DistrictGeoPath() string  { return filepath.Join(c.DataDir, c.DistrictGeoFile) }
func (c Config) SubcountyGeoPath() string { return filepath.Join(c.DataDir, c.SubcountyGeoFile) }

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
