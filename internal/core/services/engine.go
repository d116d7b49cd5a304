package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
	"github.com/custodia-labs/harvester/internal/core/ports/driving"
	"github.com/custodia-labs/harvester/internal/logger"
)

// DefaultLockWait bounds how long a caller waits on a concurrent
// refresh for the same fingerprint before being served last-good
// cache instead.
const DefaultLockWait = 30 * time.Second

// Ensure IntelligenceService implements the interface.
var _ driving.IntelligenceEngine = (*IntelligenceService)(nil)

// IntelligenceService coordinates one generate cycle: fingerprint,
// TTL-gated fetch, normalisation, classification and alert merge.
//
// The whole cycle runs under a single-flight group keyed by
// fingerprint, so two concurrent calls with identical criteria share
// one fetch AND one classification pass, and both callers receive the
// same resulting alert set. Independent fingerprints run concurrently.
type IntelligenceService struct {
	scheduler  *CrawlScheduler
	gateway    *AnalysisGateway
	alertStore driven.AlertStore
	lockWait   time.Duration

	flights singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// NewIntelligenceService creates the engine service.
// lockWait <= 0 selects the default bound.
func NewIntelligenceService(
	scheduler *CrawlScheduler,
	gateway *AnalysisGateway,
	alertStore driven.AlertStore,
	lockWait time.Duration,
) *IntelligenceService {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &IntelligenceService{
		scheduler:  scheduler,
		gateway:    gateway,
		alertStore: alertStore,
		lockWait:   lockWait,
		now:        time.Now,
	}
}

// Generate runs one analysis cycle for the criteria.
func (s *IntelligenceService) Generate(ctx context.Context, criteria domain.RequestCriteria) (*domain.CycleResult, error) {
	return s.Refresh(ctx, criteria, false)
}

// Refresh runs a cycle with a forced freshness re-check. With force
// set the TTL gate is bypassed; the single-flight guarantee still holds.
func (s *IntelligenceService) Refresh(ctx context.Context, criteria domain.RequestCriteria, force bool) (*domain.CycleResult, error) {
	fp, err := s.scheduler.Fingerprint(criteria)
	if err != nil {
		return s.failedResult(""), err
	}

	ch := s.flights.DoChan(fp.String(), func() (any, error) {
		return s.runCycle(ctx, criteria, fp, force)
	})

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Val == nil {
			return s.failedResult(fp), res.Err
		}
		return res.Val.(*domain.CycleResult), res.Err

	case <-ctx.Done():
		return s.failedResult(fp), ctx.Err()

	case <-timer.C:
		// A concurrent refresh holds the flight past the wait bound.
		// Serve the last good cache rather than blocking indefinitely.
		return s.serveLastGood(ctx, fp)
	}
}

// Alerts returns previously produced alerts for the criteria, grouped
// by category, without triggering a cycle.
func (s *IntelligenceService) Alerts(ctx context.Context, criteria domain.RequestCriteria) ([]domain.AlertGroup, error) {
	fp, err := s.scheduler.Fingerprint(criteria)
	if err != nil {
		return nil, err
	}
	alerts, err := s.alertStore.ListByFingerprint(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return domain.GroupAlerts(alerts), nil
}

// runCycle executes the body of one single-flight cycle. It returns a
// CycleResult even on failure so joined callers always get a status tag.
func (s *IntelligenceService) runCycle(ctx context.Context, criteria domain.RequestCriteria, fp domain.Fingerprint, force bool) (*domain.CycleResult, error) {
	outcome, err := s.scheduler.PlanAndFetch(ctx, criteria, force)
	if err != nil {
		if errors.Is(err, domain.ErrHarvestFailed) {
			result := s.failedResult(fp)
			if outcome != nil {
				result.QueriesPlanned = outcome.QueriesPlanned
				result.QueriesFetched = outcome.QueriesFetched
				result.QueriesFailed = outcome.QueriesFailed
			}
			return result, err
		}
		return s.failedResult(fp), err
	}

	status := domain.StatusServedFromCache
	switch {
	case outcome.Refreshed:
		status = domain.StatusFresh
	case outcome.Degraded:
		status = domain.StatusDegraded
	}

	var alerts []domain.Alert
	if outcome.Refreshed {
		alerts, err = s.classifyAndMerge(ctx, criteria, fp, outcome.Entry.Records)
		if err != nil {
			return s.failedResult(fp), err
		}
	} else {
		// Cached and degraded cycles reuse the alerts produced when the
		// entry was last classified; zero classification calls.
		alerts, err = s.alertStore.ListByFingerprint(ctx, fp)
		if err != nil {
			return s.failedResult(fp), fmt.Errorf("list alerts: %w", err)
		}
	}

	return &domain.CycleResult{
		Fingerprint:    fp,
		Status:         status,
		Groups:         domain.GroupAlerts(alerts),
		RecordCount:    len(outcome.Entry.Records),
		QueriesPlanned: outcome.QueriesPlanned,
		QueriesFetched: outcome.QueriesFetched,
		QueriesFailed:  outcome.QueriesFailed,
		CompletedAt:    s.now(),
	}, nil
}

// classifyAndMerge runs the gateway over fresh records and folds the
// result into the persisted alert set for the fingerprint.
func (s *IntelligenceService) classifyAndMerge(
	ctx context.Context,
	criteria domain.RequestCriteria,
	fp domain.Fingerprint,
	records []domain.SourceRecord,
) ([]domain.Alert, error) {
	incoming, err := s.gateway.Classify(ctx, criteria, fp, records)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	existing, err := s.alertStore.ListByFingerprint(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	merged := MergeAlerts(existing, incoming, s.now())
	for _, alert := range merged {
		if err := s.alertStore.Save(ctx, alert); err != nil {
			return nil, fmt.Errorf("save alert: %w", err)
		}
	}

	logger.Info("Cycle for %s: %d alerts (%d new)", fp.Short(), len(merged), len(merged)-len(existing))
	return merged, nil
}

// serveLastGood handles a lock-wait timeout: the caller gets the last
// good cache with status degraded, or a hard lock-timeout failure when
// no cache exists.
func (s *IntelligenceService) serveLastGood(ctx context.Context, fp domain.Fingerprint) (*domain.CycleResult, error) {
	entry, err := s.scheduler.CachedEntry(ctx, fp)
	if err != nil {
		result := s.failedResult(fp)
		if errors.Is(err, domain.ErrNotFound) {
			return result, domain.ErrCacheLockTimeout
		}
		return result, fmt.Errorf("get cache entry: %w", err)
	}

	alerts, err := s.alertStore.ListByFingerprint(ctx, fp)
	if err != nil {
		return s.failedResult(fp), fmt.Errorf("list alerts: %w", err)
	}

	logger.Warn("lock wait exceeded for %s, serving last good cache", fp.Short())
	return &domain.CycleResult{
		Fingerprint: fp,
		Status:      domain.StatusDegraded,
		Groups:      domain.GroupAlerts(alerts),
		RecordCount: len(entry.Records),
		CompletedAt: s.now(),
	}, nil
}

// failedResult builds the status-tagged result for a failed cycle.
func (s *IntelligenceService) failedResult(fp domain.Fingerprint) *domain.CycleResult {
	return &domain.CycleResult{
		Fingerprint: fp,
		Status:      domain.StatusFailed,
		CompletedAt: s.now(),
	}
}
