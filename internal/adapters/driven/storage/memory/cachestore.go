// Package memory provides in-memory store implementations, used for
// tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.CacheStore.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[domain.Fingerprint]domain.CacheEntry
}

// NewCacheStore creates a new in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[domain.Fingerprint]domain.CacheEntry),
	}
}

// Get retrieves the entry for a fingerprint.
func (s *CacheStore) Get(_ context.Context, fp domain.Fingerprint) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[fp]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Put atomically replaces the entry for a fingerprint.
func (s *CacheStore) Put(_ context.Context, entry domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Fingerprint] = entry
	return nil
}

// Delete removes the entry for a fingerprint.
func (s *CacheStore) Delete(_ context.Context, fp domain.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, fp)
	return nil
}
