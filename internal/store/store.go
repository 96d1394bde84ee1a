package store

import (
	"sync"
	"time"

	"github.com/rickgao/price-tracker/internal/model"
)

type entry struct {
	snapshot  model.AssetSnapshot
	updatedAt time.Time
}

// Store is a concurrency-safe map of asset id to snapshot.
//
// Writes replace an entry wholesale under the write lock, so a reader sees
// either the previous snapshot or the new one, never a mix.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the latest snapshot for id. ok is false if id has never been
// written.
func (s *Store) Get(id string) (model.AssetSnapshot, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return model.AssetSnapshot{}, false
	}
	return e.snapshot.Clone(), true
}

// Put replaces the snapshot for id.
func (s *Store) Put(id string, snapshot model.AssetSnapshot) {
	e := entry{
		snapshot:  snapshot.Clone(),
		updatedAt: s.now(),
	}

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
}

// UpdatedAt returns when id was last written.
func (s *Store) UpdatedAt(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	return e.updatedAt, ok
}

// Len returns the number of assets with a snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
