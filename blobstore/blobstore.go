// Package blobstore keeps fetched image content behind short-lived handles
// so rendered pages can reference it by URL, the server-side counterpart of
// a browser object URL.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown, revoked or expired handles.
var ErrNotFound = errors.New("blobstore: handle not found")

// Handle is an opaque reference to stored content.
type Handle string

// Blob is binary content plus its MIME type.
type Blob struct {
	Data        []byte
	ContentType string
}

// Store mints and resolves handles. Implementations are safe for concurrent use.
type Store interface {
	Put(ctx context.Context, blob Blob) (Handle, error)
	Get(ctx context.Context, h Handle) (Blob, error)
	Revoke(ctx context.Context, h Handle) error
	Close() error
}

// Config selects and tunes a Store implementation.
type Config struct {
	Kind         string        // "memory", "sqlite" or "redis"
	TTL          time.Duration // handle lifetime
	DatabasePath string        // sqlite file
	RedisURL     string        // redis://host:port/db
}

// New builds the Store named by cfg.Kind.
func New(cfg Config) (Store, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	switch cfg.Kind {
	case "", "memory":
		return NewMemoryStore(cfg.TTL), nil
	case "sqlite":
		return NewSQLiteStore(cfg.DatabasePath, cfg.TTL)
	case "redis":
		return NewRedisStore(cfg.RedisURL, cfg.TTL)
	default:
		return nil, fmt.Errorf("blobstore: unsupported store %q", cfg.Kind)
	}
}

func newHandle() Handle {
	return Handle(uuid.NewString())
}
