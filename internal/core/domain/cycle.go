package domain

import "time"

// CycleStatus tags the outcome of one generate cycle so the caller can
// distinguish fully fresh data from reused, partial or absent data.
type CycleStatus string

// Cycle statuses.
const (
	// StatusFresh: the entry was rebuilt from a fetch this cycle.
	// Partial query failures still count as fresh as long as at least
	// one query succeeded.
	StatusFresh CycleStatus = "fresh"

	// StatusServedFromCache: the cached entry was still within its
	// freshness window; zero external calls were made.
	StatusServedFromCache CycleStatus = "served-from-cache"

	// StatusDegraded: fresh data could not be obtained, so a previous
	// (possibly stale) cached entry was served.
	StatusDegraded CycleStatus = "degraded"

	// StatusFailed: no fetched data and no usable cache.
	StatusFailed CycleStatus = "failed"
)

// CycleResult is what one generate or refresh cycle returns to the
// presentation layer.
type CycleResult struct {
	// Fingerprint identifies the request this cycle served.
	Fingerprint Fingerprint `json:"fingerprint"`

	// Status tags the cycle outcome.
	Status CycleStatus `json:"status"`

	// Groups are the alerts grouped by category with counts.
	Groups []AlertGroup `json:"groups"`

	// RecordCount is the number of source records behind the alerts.
	RecordCount int `json:"record_count"`

	// QueriesPlanned is the number of queries the planner produced.
	QueriesPlanned int `json:"queries_planned"`

	// QueriesFetched is the number of queries actually issued this cycle.
	// Zero on a cache hit.
	QueriesFetched int `json:"queries_fetched"`

	// QueriesFailed is the number of issued queries that failed after
	// retries.
	QueriesFailed int `json:"queries_failed"`

	// CompletedAt is when the cycle finished.
	CompletedAt time.Time `json:"completed_at"`
}

// AlertCount returns the total number of alerts across all groups.
func (r *CycleResult) AlertCount() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Alerts)
	}
	return total
}
