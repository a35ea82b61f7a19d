package gallerydesk

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/eringen/gallerydesk/blobstore"
)

// Config holds all configuration for a gallerydesk server. Values come from
// an optional YAML file, then the environment.
type Config struct {
	Name string `yaml:"siteName" env:"SITE_NAME"` // Site name (default "Gallery Desk")
	Addr string `yaml:"addr" env:"ADDR"`          // Listen address (default ":3000")

	APIURL     string        `yaml:"apiUrl" env:"API_URL"`         // Required: backend base URL
	APITimeout time.Duration `yaml:"apiTimeout" env:"API_TIMEOUT"` // Per-request timeout (default 30s)

	SessionSecret string `yaml:"sessionSecret" env:"SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookieSecure" env:"COOKIE_SECURE"`   // Set true for HTTPS

	FetchConcurrency int `yaml:"fetchConcurrency" env:"FETCH_CONCURRENCY"` // Binary fetches in flight per view (default 4)
	ThumbnailWidth   int `yaml:"thumbnailWidth" env:"THUMBNAIL_WIDTH"`     // Grid thumbnail width in px (default 400)

	BlobStore        string        `yaml:"blobStore" env:"BLOB_STORE"`                // memory, sqlite or redis (default memory)
	BlobDatabasePath string        `yaml:"blobDatabasePath" env:"BLOB_DATABASE_PATH"` // SQLite path (default "data/blobs.db")
	RedisURL         string        `yaml:"redisUrl" env:"REDIS_URL"`
	BlobTTL          time.Duration `yaml:"blobTTL" env:"BLOB_TTL"` // Handle lifetime (default 10m)

	OpenBrowser  bool   `yaml:"openBrowser" env:"OPEN_BROWSER"`
	OTelEndpoint string `yaml:"otelEndpoint" env:"OTEL_ENDPOINT"` // OTLP/HTTP endpoint; tracing is off when empty
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Gallery Desk"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.APITimeout == 0 {
		c.APITimeout = 30 * time.Second
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = 4
	}
	if c.ThumbnailWidth <= 0 {
		c.ThumbnailWidth = 400
	}
	if c.BlobStore == "" {
		c.BlobStore = "memory"
	}
	if c.BlobDatabasePath == "" {
		c.BlobDatabasePath = "data/blobs.db"
	}
	if c.BlobTTL == 0 {
		c.BlobTTL = 10 * time.Minute
	}
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return errors.New("gallerydesk: APIURL is required")
	}
	if c.SessionSecret == "" {
		return errors.New("gallerydesk: SessionSecret is required")
	}
	return nil
}

func (c Config) blobConfig() blobstore.Config {
	return blobstore.Config{
		Kind:         c.BlobStore,
		TTL:          c.BlobTTL,
		DatabasePath: c.BlobDatabasePath,
		RedisURL:     c.RedisURL,
	}
}

// LoadConfig reads the YAML file at path, if there is one, and applies
// environment overrides. An empty path or a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("gallerydesk: read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("gallerydesk: parse config %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("gallerydesk: parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithBlobStore replaces the store selected by Config.BlobStore.
func WithBlobStore(s blobstore.Store) Option {
	return func(a *App) {
		a.Blobs = s
	}
}
