package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// mockCacheStore is an in-memory CacheStore that counts calls.
type mockCacheStore struct {
	mu      sync.Mutex
	entries map[domain.Fingerprint]domain.CacheEntry
	gets    int
	puts    int
}

var _ driven.CacheStore = (*mockCacheStore)(nil)

func newMockCacheStore() *mockCacheStore {
	return &mockCacheStore{entries: make(map[domain.Fingerprint]domain.CacheEntry)}
}

func (m *mockCacheStore) Get(_ context.Context, fp domain.Fingerprint) (*domain.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	entry, ok := m.entries[fp]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

func (m *mockCacheStore) Put(_ context.Context, entry domain.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.entries[entry.Fingerprint] = entry
	return nil
}

func (m *mockCacheStore) Delete(_ context.Context, fp domain.Fingerprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fp)
	return nil
}

// mockProvider is a scripted SearchProvider that counts calls.
type mockProvider struct {
	mu      sync.Mutex
	name    string
	results map[string][]domain.RawResult
	errs    map[string]error
	err     error // returned for every query when set
	calls   int
	queries []string
}

var _ driven.SearchProvider = (*mockProvider)(nil)

func newMockProvider() *mockProvider {
	return &mockProvider{
		name:    "mock-provider",
		results: make(map[string][]domain.RawResult),
		errs:    make(map[string]error),
	}
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Search(_ context.Context, query string, _ int) ([]domain.RawResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if err, ok := m.errs[query]; ok {
		return nil, err
	}
	return m.results[query], nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockClassifier is a scripted Classifier that counts calls.
type mockClassifier struct {
	mu        sync.Mutex
	responses []*driven.ClassificationResponse
	errs      []error
	calls     int
	requests  []driven.ClassificationRequest
}

var _ driven.Classifier = (*mockClassifier)(nil)

func (m *mockClassifier) Classify(_ context.Context, req driven.ClassificationRequest) (*driven.ClassificationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	m.requests = append(m.requests, req)

	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return &driven.ClassificationResponse{}, nil
}

func (m *mockClassifier) ModelName() string {
	return "mock-model"
}

func (m *mockClassifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockAlertStore is an in-memory AlertStore preserving first-seen order.
type mockAlertStore struct {
	mu     sync.Mutex
	alerts map[string]domain.Alert
	order  []string
}

var _ driven.AlertStore = (*mockAlertStore)(nil)

func newMockAlertStore() *mockAlertStore {
	return &mockAlertStore{alerts: make(map[string]domain.Alert)}
}

func (m *mockAlertStore) Get(_ context.Context, dedupKey string) (*domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	alert, ok := m.alerts[dedupKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

func (m *mockAlertStore) Save(_ context.Context, alert domain.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.alerts[alert.DedupKey]; !ok {
		m.order = append(m.order, alert.DedupKey)
	}
	m.alerts[alert.DedupKey] = alert
	return nil
}

func (m *mockAlertStore) ListByFingerprint(_ context.Context, fp domain.Fingerprint) ([]domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var alerts []domain.Alert
	for _, key := range m.order {
		if m.alerts[key].Fingerprint == fp {
			alerts = append(alerts, m.alerts[key])
		}
	}
	return alerts, nil
}

func (m *mockAlertStore) List(_ context.Context) ([]domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	alerts := make([]domain.Alert, 0, len(m.order))
	for _, key := range m.order {
		alerts = append(alerts, m.alerts[key])
	}
	return alerts, nil
}

// mockConfigStore is an in-memory ConfigStore.
type mockConfigStore struct {
	mu   sync.Mutex
	data map[string]any
}

var _ driven.ConfigStore = (*mockConfigStore)(nil)

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *mockConfigStore) GetString(key string) string {
	val, ok := m.Get(key)
	if !ok {
		return ""
	}
	str, _ := val.(string)
	return str
}

func (m *mockConfigStore) GetInt(key string) int {
	val, ok := m.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	return nil
}
