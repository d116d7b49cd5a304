package driven

import (
	"context"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// AlertStore persists alerts keyed by dedup key.
//
// Alerts are append-only: Save upserts by dedup key, and the engine
// never deletes alerts automatically (retention is an external concern).
type AlertStore interface {
	// Get retrieves an alert by dedup key.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, dedupKey string) (*domain.Alert, error)

	// Save stores or replaces an alert by its dedup key.
	Save(ctx context.Context, alert domain.Alert) error

	// ListByFingerprint returns the alerts produced for a fingerprint,
	// in first-seen order.
	ListByFingerprint(ctx context.Context, fp domain.Fingerprint) ([]domain.Alert, error)

	// List returns all alerts in first-seen order.
	List(ctx context.Context) ([]domain.Alert, error)
}
