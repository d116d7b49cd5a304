package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// Ensure AlertStore implements the interface.
var _ driven.AlertStore = (*AlertStore)(nil)

// AlertStore is an in-memory implementation of driven.AlertStore.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]domain.Alert
	order  []string // dedup keys in first-seen order
}

// NewAlertStore creates a new in-memory alert store.
func NewAlertStore() *AlertStore {
	return &AlertStore{
		alerts: make(map[string]domain.Alert),
	}
}

// Get retrieves an alert by dedup key.
func (s *AlertStore) Get(_ context.Context, dedupKey string) (*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alert, ok := s.alerts[dedupKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

// Save stores or replaces an alert by its dedup key.
func (s *AlertStore) Save(_ context.Context, alert domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[alert.DedupKey]; !ok {
		s.order = append(s.order, alert.DedupKey)
	}
	s.alerts[alert.DedupKey] = alert
	return nil
}

// ListByFingerprint returns the alerts produced for a fingerprint,
// in first-seen order.
func (s *AlertStore) ListByFingerprint(_ context.Context, fp domain.Fingerprint) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var alerts []domain.Alert
	for _, key := range s.order {
		alert := s.alerts[key]
		if alert.Fingerprint == fp {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

// List returns all alerts in first-seen order.
func (s *AlertStore) List(_ context.Context) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alerts := make([]domain.Alert, 0, len(s.order))
	for _, key := range s.order {
		alerts = append(alerts, s.alerts[key])
	}
	return alerts, nil
}
