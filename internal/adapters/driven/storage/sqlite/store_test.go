package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(fp domain.Fingerprint) domain.CacheEntry {
	return domain.CacheEntry{
		Fingerprint: fp,
		Records: []domain.SourceRecord{
			{
				Fingerprint:      fp,
				Title:            "Acme closes series B",
				Snippet:          "The round was led by...",
				URL:              "https://example.com/story",
				OriginatingQuery: "Acme funding",
				FetchedAt:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			},
		},
		LastRefreshedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		TTLSeconds:      21600,
	}
}

func testAlert(fp domain.Fingerprint, title string) domain.Alert {
	link := "https://example.com/" + title
	return domain.Alert{
		ID:              "id-" + title,
		Fingerprint:     fp,
		Category:        domain.CategoryFunding,
		Title:           title,
		Description:     "desc",
		Icon:            domain.CategoryFunding.Icon(),
		Colour:          domain.CategoryFunding.Colour(),
		SourceLink:      link,
		DedupKey:        domain.AlertDedupKey(domain.CategoryFunding, title, link),
		FirstSeenAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		LastConfirmedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestStore_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "harvester.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestStore_MigrationsAreIdempotentAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.CacheStore().Put(context.Background(), testEntry("fp-1")))
	require.NoError(t, store.Close())

	// Reopening re-runs the migration pass; applied versions are skipped
	// and existing data survives.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	entry, err := store.CacheStore().Get(context.Background(), "fp-1")
	require.NoError(t, err)
	assert.Len(t, entry.Records, 1)
}

func TestCacheStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	cache := store.CacheStore()
	entry := testEntry("fp-1")

	require.NoError(t, cache.Put(context.Background(), entry))

	got, err := cache.Get(context.Background(), "fp-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Fingerprint, got.Fingerprint)
	assert.Equal(t, entry.Records, got.Records)
	assert.True(t, entry.LastRefreshedAt.Equal(got.LastRefreshedAt))
	assert.Equal(t, entry.TTLSeconds, got.TTLSeconds)
}

func TestCacheStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CacheStore().Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCacheStore_PutReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	cache := store.CacheStore()
	require.NoError(t, cache.Put(context.Background(), testEntry("fp-1")))

	replacement := testEntry("fp-1")
	replacement.Records = []domain.SourceRecord{{
		Fingerprint: "fp-1",
		Title:       "Replacement",
		URL:         "https://example.com/new",
	}}
	replacement.TTLSeconds = 3600
	require.NoError(t, cache.Put(context.Background(), replacement))

	got, err := cache.Get(context.Background(), "fp-1")
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Replacement", got.Records[0].Title)
	assert.Equal(t, int64(3600), got.TTLSeconds)
}

func TestCacheStore_Delete(t *testing.T) {
	store := newTestStore(t)
	cache := store.CacheStore()
	require.NoError(t, cache.Put(context.Background(), testEntry("fp-1")))

	require.NoError(t, cache.Delete(context.Background(), "fp-1"))

	_, err := cache.Get(context.Background(), "fp-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing fingerprint is a no-op.
	assert.NoError(t, cache.Delete(context.Background(), "fp-1"))
}

func TestAlertStore_SaveGet(t *testing.T) {
	store := newTestStore(t)
	alerts := store.AlertStore()
	alert := testAlert("fp-1", "a")

	require.NoError(t, alerts.Save(context.Background(), alert))

	got, err := alerts.Get(context.Background(), alert.DedupKey)
	require.NoError(t, err)
	assert.Equal(t, alert.ID, got.ID)
	assert.Equal(t, alert.Fingerprint, got.Fingerprint)
	assert.Equal(t, alert.Category, got.Category)
	assert.Equal(t, alert.Colour, got.Colour)
	assert.True(t, alert.FirstSeenAt.Equal(got.FirstSeenAt))
}

func TestAlertStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AlertStore().Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertStore_SaveUpserts(t *testing.T) {
	store := newTestStore(t)
	alerts := store.AlertStore()
	alert := testAlert("fp-1", "a")
	require.NoError(t, alerts.Save(context.Background(), alert))

	alert.LastConfirmedAt = alert.LastConfirmedAt.Add(2 * time.Hour)
	require.NoError(t, alerts.Save(context.Background(), alert))

	all, err := alerts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, alert.LastConfirmedAt.Equal(all[0].LastConfirmedAt))
}

func TestAlertStore_ListByFingerprintInFirstSeenOrder(t *testing.T) {
	store := newTestStore(t)
	alerts := store.AlertStore()

	first := testAlert("fp-1", "a")
	second := testAlert("fp-1", "b")
	second.FirstSeenAt = first.FirstSeenAt.Add(time.Hour)
	other := testAlert("fp-2", "c")

	require.NoError(t, alerts.Save(context.Background(), second))
	require.NoError(t, alerts.Save(context.Background(), first))
	require.NoError(t, alerts.Save(context.Background(), other))

	got, err := alerts.ListByFingerprint(context.Background(), "fp-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "b", got[1].Title)

	none, err := alerts.ListByFingerprint(context.Background(), "fp-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAlertStore_CategoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	alerts := store.AlertStore()

	for _, cat := range domain.AllCategories() {
		alert := testAlert("fp-1", "t-"+string(cat))
		alert.Category = cat
		alert.DedupKey = domain.AlertDedupKey(cat, alert.Title, alert.SourceLink)
		require.NoError(t, alerts.Save(context.Background(), alert))

		got, err := alerts.Get(context.Background(), alert.DedupKey)
		require.NoError(t, err)
		assert.Equal(t, cat, got.Category)
	}
}
