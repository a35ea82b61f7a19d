package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists blobs in a SQLite file so handles survive restarts
// of the frontend for as long as their TTL allows.
type SQLiteStore struct {
	db   *sql.DB
	ttl  time.Duration
	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// NewSQLiteStore opens (or creates) the database at path, ensures the
// directory exists and starts the cleanup scheduler.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("blobstore: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("blobstore: open %s: %w", path, err)
	}
	// WAL lets the blob route read while fan-out fetches write.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("blobstore: pragmas: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &SQLiteStore{
		db:   db,
		ttl:  ttl,
		now:  time.Now,
		done: make(chan struct{}),
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	go s.cleanupLoop()
	return s, nil
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blobs (
    handle TEXT PRIMARY KEY,
    content_type TEXT NOT NULL,
    data BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS blobs_expires_at ON blobs (expires_at);
`)
	if err != nil {
		return fmt.Errorf("blobstore: schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.removeExpired(context.Background()); err != nil {
				slog.Warn("blobstore: sqlite cleanup failed", "error", err)
			}
		case <-s.done:
			return
		}
	}
}

func (s *SQLiteStore) removeExpired(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE expires_at <= ?`, s.now().UnixNano())
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, blob Blob) (Handle, error) {
	h := newHandle()
	expires := s.now().Add(s.ttl).UnixNano()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (handle, content_type, data, expires_at) VALUES (?, ?, ?, ?)`,
		string(h), blob.ContentType, blob.Data, expires)
	if err != nil {
		return "", fmt.Errorf("blobstore: put: %w", err)
	}
	return h, nil
}

func (s *SQLiteStore) Get(ctx context.Context, h Handle) (Blob, error) {
	var b Blob
	err := s.db.QueryRowContext(ctx,
		`SELECT content_type, data FROM blobs WHERE handle = ? AND expires_at > ?`,
		string(h), s.now().UnixNano()).
		Scan(&b.ContentType, &b.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return Blob{}, ErrNotFound
	}
	if err != nil {
		return Blob{}, fmt.Errorf("blobstore: get: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) Revoke(ctx context.Context, h Handle) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE handle = ?`, string(h)); err != nil {
		return fmt.Errorf("blobstore: revoke: %w", err)
	}
	return nil
}

// Close stops the cleanup scheduler and closes the database.
func (s *SQLiteStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.db.Close()
}
