package driven

import (
	"context"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// CacheStore persists fingerprint-keyed result sets.
//
// All mutations are whole-entry replacements: there are no field-level
// partial writes, so readers never observe a half-updated entry. The
// single-flight guarantee per fingerprint is enforced by the crawl
// scheduler, not the store; the store only needs atomic Get/Put.
type CacheStore interface {
	// Get retrieves the entry for a fingerprint.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, fp domain.Fingerprint) (*domain.CacheEntry, error)

	// Put atomically replaces the entry for a fingerprint.
	Put(ctx context.Context, entry domain.CacheEntry) error

	// Delete removes the entry for a fingerprint. Removing an absent
	// entry is not an error.
	Delete(ctx context.Context, fp domain.Fingerprint) error
}
