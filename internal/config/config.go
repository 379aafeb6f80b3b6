package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ngmaloney/tokyo-weekend/internal/database"
	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	// File receives log output in the TUI. Empty discards it.
	File string `yaml:"file"`
}

// Config is the top-level client configuration.
type Config struct {
	// APIURL is the backend origin, e.g. "http://localhost:8000".
	APIURL string `yaml:"api_url"`

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration `yaml:"timeout"`

	// DBPath is the SQLite file holding the stored credential.
	DBPath string `yaml:"db_path"`

	// Timezone is the IANA zone the backend's zone-less timestamps are in.
	// Empty means the machine's local zone.
	Timezone string `yaml:"timezone"`

	// Origin is the starting point for route lookups.
	Origin models.Coordinates `yaml:"origin"`

	Log LogConfig `yaml:"log"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIURL:   "http://localhost:8000",
		Timeout:  30 * time.Second,
		DBPath:   database.DBPath(),
		Timezone: "",
		// Tokyo Station
		Origin: models.Coordinates{Latitude: 35.6812, Longitude: 139.7671},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists), a .env file in the working directory (if any) and the environment,
// in that order.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TOKYO_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("TOKYO_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKYO_API_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("TOKYO_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TOKYO_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate checks that all settings are usable
func (c *Config) Validate() error {
	var problems []string

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("api_url %q must be an absolute http(s) URL", c.APIURL))
	}

	if c.Timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}

	if c.DBPath == "" {
		problems = append(problems, "db_path is required")
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, err.Error())
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		problems = append(problems, "log.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		problems = append(problems, "log.format must be one of: json, text")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
