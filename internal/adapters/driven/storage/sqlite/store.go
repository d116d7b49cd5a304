package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/harvester/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the cache and alert store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.harvester/data/harvester.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".harvester", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "harvester.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CacheStore returns a CacheStore interface backed by this store.
func (s *Store) CacheStore() driven.CacheStore {
	return &cacheStore{store: s}
}

// AlertStore returns an AlertStore interface backed by this store.
func (s *Store) AlertStore() driven.AlertStore {
	return &alertStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Cache Store ====================

// cacheStore implements driven.CacheStore.
type cacheStore struct {
	store *Store
}

var _ driven.CacheStore = (*cacheStore)(nil)

// Get retrieves the entry for a fingerprint.
func (s *cacheStore) Get(ctx context.Context, fp domain.Fingerprint) (*domain.CacheEntry, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT fingerprint, records, last_refreshed_at, ttl_seconds
		FROM cache_entries WHERE fingerprint = ?
	`, fp.String())

	var entry domain.CacheEntry
	var fpStr, recordsJSON string
	var lastRefreshedAt time.Time
	if err := row.Scan(&fpStr, &recordsJSON, &lastRefreshedAt, &entry.TTLSeconds); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	if err := json.Unmarshal([]byte(recordsJSON), &entry.Records); err != nil {
		return nil, fmt.Errorf("unmarshalling records: %w", err)
	}

	entry.Fingerprint = domain.Fingerprint(fpStr)
	entry.LastRefreshedAt = lastRefreshedAt.UTC()

	return &entry, nil
}

// Put atomically replaces the entry for a fingerprint.
func (s *cacheStore) Put(ctx context.Context, entry domain.CacheEntry) error {
	recordsJSON, err := json.Marshal(entry.Records)
	if err != nil {
		return fmt.Errorf("marshalling records: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO cache_entries (fingerprint, records, last_refreshed_at, ttl_seconds)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			records = excluded.records,
			last_refreshed_at = excluded.last_refreshed_at,
			ttl_seconds = excluded.ttl_seconds
	`, entry.Fingerprint.String(), string(recordsJSON), entry.LastRefreshedAt.UTC(), entry.TTLSeconds)

	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for a fingerprint.
func (s *cacheStore) Delete(ctx context.Context, fp domain.Fingerprint) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE fingerprint = ?", fp.String())
	if err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// ==================== Alert Store ====================

// alertStore implements driven.AlertStore.
type alertStore struct {
	store *Store
}

var _ driven.AlertStore = (*alertStore)(nil)

// Get retrieves an alert by dedup key.
func (s *alertStore) Get(ctx context.Context, dedupKey string) (*domain.Alert, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT dedup_key, id, fingerprint, category, title, description,
		       icon, colour, source_link, first_seen_at, last_confirmed_at
		FROM alerts WHERE dedup_key = ?
	`, dedupKey)

	alert, err := scanAlertRow(row)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// Save stores or replaces an alert by its dedup key.
func (s *alertStore) Save(ctx context.Context, alert domain.Alert) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO alerts
			(dedup_key, id, fingerprint, category, title, description,
			 icon, colour, source_link, first_seen_at, last_confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dedup_key) DO UPDATE SET
			id = excluded.id,
			fingerprint = excluded.fingerprint,
			category = excluded.category,
			title = excluded.title,
			description = excluded.description,
			icon = excluded.icon,
			colour = excluded.colour,
			source_link = excluded.source_link,
			first_seen_at = excluded.first_seen_at,
			last_confirmed_at = excluded.last_confirmed_at
	`, alert.DedupKey, alert.ID, alert.Fingerprint.String(), string(alert.Category),
		alert.Title, alert.Description, alert.Icon, alert.Colour, alert.SourceLink,
		alert.FirstSeenAt.UTC(), alert.LastConfirmedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving alert: %w", err)
	}
	return nil
}

// ListByFingerprint returns the alerts produced for a fingerprint,
// in first-seen order.
func (s *alertStore) ListByFingerprint(ctx context.Context, fp domain.Fingerprint) ([]domain.Alert, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT dedup_key, id, fingerprint, category, title, description,
		       icon, colour, source_link, first_seen_at, last_confirmed_at
		FROM alerts WHERE fingerprint = ?
		ORDER BY first_seen_at, rowid
	`, fp.String())
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// List returns all alerts in first-seen order.
func (s *alertStore) List(ctx context.Context) ([]domain.Alert, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT dedup_key, id, fingerprint, category, title, description,
		       icon, colour, source_link, first_seen_at, last_confirmed_at
		FROM alerts
		ORDER BY first_seen_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// ==================== Helper Functions ====================

// scanAlertRow scans a single alert row.
func scanAlertRow(row *sql.Row) (*domain.Alert, error) {
	var alert domain.Alert
	var fpStr, category string
	var firstSeenAt, lastConfirmedAt time.Time

	if err := row.Scan(&alert.DedupKey, &alert.ID, &fpStr, &category,
		&alert.Title, &alert.Description, &alert.Icon, &alert.Colour,
		&alert.SourceLink, &firstSeenAt, &lastConfirmedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning alert: %w", err)
	}

	alert.Fingerprint = domain.Fingerprint(fpStr)
	alert.Category, _ = domain.ParseCategory(category)
	alert.FirstSeenAt = firstSeenAt.UTC()
	alert.LastConfirmedAt = lastConfirmedAt.UTC()

	return &alert, nil
}

// scanAlerts scans multiple alert rows.
func scanAlerts(rows *sql.Rows) ([]domain.Alert, error) {
	var alerts []domain.Alert //nolint:prealloc // size unknown from query
	for rows.Next() {
		var alert domain.Alert
		var fpStr, category string
		var firstSeenAt, lastConfirmedAt time.Time

		if err := rows.Scan(&alert.DedupKey, &alert.ID, &fpStr, &category,
			&alert.Title, &alert.Description, &alert.Icon, &alert.Colour,
			&alert.SourceLink, &firstSeenAt, &lastConfirmedAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}

		alert.Fingerprint = domain.Fingerprint(fpStr)
		alert.Category, _ = domain.ParseCategory(category)
		alert.FirstSeenAt = firstSeenAt.UTC()
		alert.LastConfirmedAt = lastConfirmedAt.UTC()

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alerts: %w", err)
	}

	return alerts, nil
}
