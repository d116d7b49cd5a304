package driving

import (
	"context"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// IntelligenceEngine is the engine's entry point for the presentation
// layer. It is stateless from the caller's perspective: one call per
// user action, all results returned as values. It must never depend on
// any UI-session lifecycle.
type IntelligenceEngine interface {
	// Generate runs one analysis cycle for the criteria. Within the
	// freshness window it serves entirely from cache with zero external
	// calls; otherwise it fetches, normalises, classifies and merges.
	// The returned CycleResult always carries a status tag, even when
	// err is non-nil (status failed).
	Generate(ctx context.Context, criteria domain.RequestCriteria) (*domain.CycleResult, error)

	// Refresh is Generate with a forced freshness re-check. With force
	// set, the TTL gate is bypassed and a fetch cycle runs regardless
	// of entry age. Still single-flight-protected per fingerprint.
	Refresh(ctx context.Context, criteria domain.RequestCriteria, force bool) (*domain.CycleResult, error)

	// Alerts returns previously produced alerts for the criteria,
	// grouped by category, without triggering any cycle.
	Alerts(ctx context.Context, criteria domain.RequestCriteria) ([]domain.AlertGroup, error)
}
