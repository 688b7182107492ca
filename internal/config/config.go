package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
)

// Config represents the application configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Graph database connection
	Graph GraphConfig `toml:"graph"`

	// Circuit breaker around the graph database
	Breaker BreakerConfig `toml:"breaker"`

	// Search and result settings
	Catalog CatalogConfig `toml:"catalog"`

	// Facet cache configuration
	Cache CacheConfig `toml:"cache"`

	// Card render settings
	Artwork ArtworkConfig `toml:"artwork"`

	// Logging configuration
	Log LogConfig `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           int      `toml:"port"`            // Listen port
	CORSOrigins    []string `toml:"cors_origins"`    // Allowed origins ("*" for any)
	RequestTimeout string   `toml:"request_timeout"` // Per request timeout (e.g., "30s")
}

// GraphConfig contains Neo4j connection settings.
type GraphConfig struct {
	URI            string `toml:"uri"`             // e.g. neo4j+s://xxxx.databases.neo4j.io
	Username       string `toml:"username"`        // Empty for no auth
	Password       string `toml:"password"`        // Prefer NEO4J_PASSWORD over the file
	Database       string `toml:"database"`        // Empty for the server default
	MaxConnections int    `toml:"max_connections"` // Connection pool size
	QueryTimeout   string `toml:"query_timeout"`   // Per query timeout (e.g., "15s")
	ConnectTimeout string `toml:"connect_timeout"` // Pool acquisition timeout
}

// BreakerConfig contains circuit breaker settings.
type BreakerConfig struct {
	Enabled          bool    `toml:"enabled"`
	FailureThreshold float64 `toml:"failure_threshold"` // Failure ratio that opens the breaker
	MinRequests      uint32  `toml:"min_requests"`      // Requests observed before tripping
	OpenTimeout      string  `toml:"open_timeout"`      // Time spent open before probing
}

// CatalogConfig contains search settings.
type CatalogConfig struct {
	ResultLimit         int      `toml:"result_limit"`          // Max cards per search
	ExcludedSets        []string `toml:"excluded_sets"`         // Set names never shown
	ExcludedSetPrefixes []string `toml:"excluded_set_prefixes"` // Set name prefixes never shown
	DefaultPageSize     int      `toml:"default_page_size"`     // Cards per page in browse mode
}

// CacheConfig contains facet caching settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"` // Enable caching
	TTL     string `toml:"ttl"`     // Cache TTL (e.g., "10m")
}

// ArtworkConfig contains card render settings.
type ArtworkConfig struct {
	Host           string `toml:"host"`            // Render host, e.g. art.hearthstonejson.com/v1
	Locale         string `toml:"locale"`          // e.g. enUS
	Size           string `toml:"size"`            // e.g. 256x
	ReferenceFile  string `toml:"reference_file"`  // JSON array of {name, id}
	WatchReference bool   `toml:"watch_reference"` // Reload the reference file on change
	CacheDir       string `toml:"cache_dir"`       // Empty disables the image cache
	CacheMaxSize   int64  `toml:"cache_max_size"`  // Bytes (0 = unlimited)
	FetchInterval  string `toml:"fetch_interval"`  // Min spacing between downloads
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level       string `toml:"level"`        // debug, info, warn, error
	Format      string `toml:"format"`       // json or console
	ServiceName string `toml:"service_name"` // Added to every entry
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           3000,
			CORSOrigins:    []string{"*"},
			RequestTimeout: "30s",
		},
		Graph: GraphConfig{
			URI:            "neo4j://localhost:7687",
			Username:       "neo4j",
			MaxConnections: 50,
			QueryTimeout:   "15s",
			ConnectTimeout: "30s",
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			FailureThreshold: 0.8,
			MinRequests:      5,
			OpenTimeout:      "60s",
		},
		Catalog: CatalogConfig{
			ResultLimit:         100,
			ExcludedSets:        []string{"HERO_SKINS"},
			ExcludedSetPrefixes: []string{"PLACEHOLDER"},
			DefaultPageSize:     20,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "10m",
		},
		Artwork: ArtworkConfig{
			Host:           "art.hearthstonejson.com/v1",
			Locale:         "enUS",
			Size:           "256x",
			ReferenceFile:  "",
			WatchReference: false,
			CacheDir:       "",
			CacheMaxSize:   200 * 1024 * 1024,
			FetchInterval:  "100ms",
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "card-explorer",
		},
	}
}

// DefaultPath returns ~/.card-explorer/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".card-explorer", "config.toml"), nil
}

// Load reads the configuration at path on top of the defaults, then applies
// environment overrides. An empty path uses DefaultPath; a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides settings from the environment: NEO4J_URI,
// NEO4J_USERNAME, NEO4J_PASSWORD, NEO4J_DATABASE, PORT and CORS_ORIGIN
// (comma separated).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("NEO4J_URI"); ok && v != "" {
		c.Graph.URI = v
	}
	if v, ok := lookup("NEO4J_USERNAME"); ok {
		c.Graph.Username = v
	}
	if v, ok := lookup("NEO4J_PASSWORD"); ok {
		c.Graph.Password = v
	}
	if v, ok := lookup("NEO4J_DATABASE"); ok {
		c.Graph.Database = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("CORS_ORIGIN"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// The file may carry the database password.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Graph.URI == "" {
		return fmt.Errorf("graph URI is required")
	}
	if c.Graph.MaxConnections < 0 {
		return fmt.Errorf("max connections cannot be negative: %d", c.Graph.MaxConnections)
	}
	if c.Breaker.FailureThreshold <= 0 || c.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("breaker failure threshold must be in (0, 1]: %v", c.Breaker.FailureThreshold)
	}
	if c.Catalog.ResultLimit < 1 || c.Catalog.ResultLimit > query.DefaultLimit {
		return fmt.Errorf("result limit must be in [1, %d]: %d", query.DefaultLimit, c.Catalog.ResultLimit)
	}
	if c.Catalog.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be positive: %d", c.Catalog.DefaultPageSize)
	}
	if c.Artwork.CacheMaxSize < 0 {
		return fmt.Errorf("artwork cache max size cannot be negative: %d", c.Artwork.CacheMaxSize)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"server request timeout", c.Server.RequestTimeout},
		{"graph query timeout", c.Graph.QueryTimeout},
		{"graph connect timeout", c.Graph.ConnectTimeout},
		{"breaker open timeout", c.Breaker.OpenTimeout},
		{"cache TTL", c.Cache.TTL},
		{"artwork fetch interval", c.Artwork.FetchInterval},
	}
	for _, d := range durations {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	return nil
}

// GetRequestTimeout returns the HTTP request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// GetQueryTimeout returns the graph query timeout as a duration.
func (c *Config) GetQueryTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Graph.QueryTimeout)
}

// GetConnectTimeout returns the pool acquisition timeout as a duration.
func (c *Config) GetConnectTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Graph.ConnectTimeout)
}

// GetBreakerTimeout returns the breaker open duration.
func (c *Config) GetBreakerTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Breaker.OpenTimeout)
}

// GetCacheTTL returns the facet cache TTL, or 0 when caching is disabled.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	if !c.Cache.Enabled {
		return 0, nil
	}
	return time.ParseDuration(c.Cache.TTL)
}

// GetFetchInterval returns the minimum spacing between art downloads.
func (c *Config) GetFetchInterval() (time.Duration, error) {
	return time.ParseDuration(c.Artwork.FetchInterval)
}
