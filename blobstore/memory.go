package blobstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	blob    Blob
	expires time.Time
}

// MemoryStore holds blobs in process memory with a TTL per handle.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Handle]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its expiry sweeper.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[Handle]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	now := s.now()
	s.mu.Lock()
	for h, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, h)
		}
	}
	s.mu.Unlock()
}

func (s *MemoryStore) Put(_ context.Context, blob Blob) (Handle, error) {
	h := newHandle()
	s.mu.Lock()
	s.entries[h] = memoryEntry{blob: blob, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return h, nil
}

func (s *MemoryStore) Get(_ context.Context, h Handle) (Blob, error) {
	s.mu.RLock()
	e, ok := s.entries[h]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expires) {
		return Blob{}, ErrNotFound
	}
	return e.blob, nil
}

func (s *MemoryStore) Revoke(_ context.Context, h Handle) error {
	s.mu.Lock()
	delete(s.entries, h)
	s.mu.Unlock()
	return nil
}

// Len reports how many handles are currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the sweeper. Stored blobs stay readable until they expire.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
