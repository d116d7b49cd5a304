package services

import (
	"time"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// MergeAlerts folds newly classified alerts into the existing set by
// dedup key. A re-sighted key only bumps LastConfirmedAt: the original
// FirstSeenAt and presentation fields are kept, so a later (possibly
// noisier) classification pass never silently rewrites an alert the
// user has already seen. Unseen keys are inserted with
// FirstSeenAt = LastConfirmedAt = now.
//
// The merge is idempotent beyond the LastConfirmedAt bump: merging the
// same incoming set twice yields the same final set. Existing alerts
// keep their order; new alerts append in incoming order.
func MergeAlerts(existing, incoming []domain.Alert, now time.Time) []domain.Alert {
	merged := make([]domain.Alert, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, alert := range merged {
		index[alert.DedupKey] = i
	}

	for _, alert := range incoming {
		if i, seen := index[alert.DedupKey]; seen {
			merged[i].LastConfirmedAt = now
			continue
		}
		alert.FirstSeenAt = now
		alert.LastConfirmedAt = now
		index[alert.DedupKey] = len(merged)
		merged = append(merged, alert)
	}

	return merged
}
