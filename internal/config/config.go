package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/store"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Environment overrides, applied after the file and any .env file.
const (
	EnvDB          = "NEWSFEED_DB"
	EnvPostgresDSN = "NEWSFEED_PG_DSN"
	EnvAddr        = "NEWSFEED_ADDR"
	EnvDebounceMs  = "NEWSFEED_DEBOUNCE_MS"
	EnvCORSOrigins = "NEWSFEED_CORS_ORIGINS"
	EnvDotEnvPath  = "NEWSFEED_ENV_PATH"
)

// Config is the persistent application configuration
type Config struct {
	Search SearchConfig `json:"search"`
	Store  StoreConfig  `json:"store"`
	Server ServerConfig `json:"server"`
	Feeds  FeedsConfig  `json:"feeds"`
	UI     UIConfig     `json:"ui"`
}

// SearchConfig holds search screen behavior
type SearchConfig struct {
	DebounceMs   int    `json:"debounce_ms"`
	DefaultFacet string `json:"default_facet"`
}

// StoreConfig selects the article backend. A non-empty PostgresDSN wins.
type StoreConfig struct {
	Path        string `json:"path"`
	PostgresDSN string `json:"postgres_dsn,omitempty"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr        string   `json:"addr"`
	CORSOrigins []string `json:"cors_origins"`
}

// FeedsConfig lists RSS/Atom sources for import
type FeedsConfig struct {
	Sources           []Source `json:"sources"`
	RequestsPerSecond float64  `json:"requests_per_second"`
	TimeoutSeconds    int      `json:"timeout_seconds"`
}

// Source is one feed URL and the category its articles land in
type Source struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme     string `json:"theme"` // "dark" or "light"
	ShowDebug bool   `json:"show_debug"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			DebounceMs:   500,
			DefaultFacet: string(facet.MyFeed),
		},
		Store: StoreConfig{
			Path: filepath.Join(DataDir(), "newsfeed.db"),
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Feeds: FeedsConfig{
			Sources:           []Source{},
			RequestsPerSecond: 2,
			TimeoutSeconds:    15,
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsfeed", "config.json")
}

// DataDir holds the database and logs.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "newsfeed")
}

// Load reads config from path, falling back to defaults when the file does
// not exist, then applies .env and environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads NEWSFEED_ENV_PATH, or ./.env when unset. A missing
// default file is not an error; a missing explicit file is.
func LoadDotEnv() error {
	path, explicit := os.LookupEnv(EnvDotEnvPath)
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from lookup, usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDB); ok && v != "" {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvPostgresDSN); ok {
		c.Store.PostgresDSN = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvDebounceMs); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvDebounceMs, v)
		}
		c.Search.DebounceMs = ms
	}
	if v, ok := lookup(EnvCORSOrigins); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.Server.CORSOrigins = origins
		}
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Search.DebounceMs <= 0 {
		return fmt.Errorf("%w: search.debounce_ms must be positive, got %d", ErrInvalid, c.Search.DebounceMs)
	}
	if _, ok := facet.Default().Lookup(facet.ID(c.Search.DefaultFacet)); !ok {
		return fmt.Errorf("%w: search.default_facet %q", ErrInvalid, c.Search.DefaultFacet)
	}
	if c.Store.Path == "" && c.Store.PostgresDSN == "" {
		return fmt.Errorf("%w: store.path or store.postgres_dsn is required", ErrInvalid)
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("%w: server.addr %q: %v", ErrInvalid, c.Server.Addr, err)
	}
	if c.Feeds.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: feeds.requests_per_second must be positive", ErrInvalid)
	}
	for i, s := range c.Feeds.Sources {
		if s.URL == "" {
			return fmt.Errorf("%w: feeds.sources[%d] has no url", ErrInvalid, i)
		}
		if !store.Category(s.Category).Valid() {
			return fmt.Errorf("%w: feeds.sources[%d] category %q", ErrInvalid, i, s.Category)
		}
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("%w: ui.theme %q", ErrInvalid, c.UI.Theme)
	}
	return nil
}

// Save writes config to path as indented JSON.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// May hold a database password in the DSN.
	return os.WriteFile(path, data, 0600)
}
