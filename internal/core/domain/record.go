package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// RawResult is a single untrusted result from the search provider.
type RawResult struct {
	// Title is the result title as returned by the provider.
	Title string

	// Snippet is the short excerpt as returned by the provider.
	Snippet string

	// Link is the result URL as returned by the provider.
	Link string
}

// SourceRecord is a normalised, deduplicated search result.
// Immutable after creation.
type SourceRecord struct {
	// URL is the canonicalised result URL.
	URL string `json:"url"`

	// Title is the result title.
	Title string `json:"title"`

	// Snippet is the short excerpt from the result.
	Snippet string `json:"snippet"`

	// FetchedAt is when the record was fetched from the provider.
	FetchedAt time.Time `json:"fetched_at"`

	// ContentHash is the digest of the normalised title+snippet text,
	// used for near-duplicate suppression.
	ContentHash string `json:"content_hash"`

	// OriginatingQuery is the planned query that produced this record.
	OriginatingQuery string `json:"originating_query"`

	// Fingerprint links the record to the request that fetched it.
	Fingerprint Fingerprint `json:"fingerprint"`
}

// ContentHash digests normalised title+snippet text. Case and run-of-
// whitespace differences do not change the hash, so trivially reworded
// duplicates collapse to one record.
func ContentHash(title, snippet string) string {
	normalised := strings.ToLower(strings.Join(strings.Fields(title+" "+snippet), " "))
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])
}

// CacheEntry holds the result set for one fingerprint along with
// freshness metadata. Owned exclusively by the cache store; mutated
// only by whole-entry replacement after a successful fetch cycle,
// so readers never observe a half-updated entry.
type CacheEntry struct {
	// Fingerprint is the cache key.
	Fingerprint Fingerprint

	// Records are the normalised results in provider order.
	Records []SourceRecord

	// LastRefreshedAt is when the entry was last rebuilt from a fetch.
	LastRefreshedAt time.Time

	// TTLSeconds is the freshness window applied to this entry.
	TTLSeconds int64
}

// Age returns how long ago the entry was refreshed.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.LastRefreshedAt)
}

// Expired reports whether the entry's own TTL window has elapsed.
// The freshness policy may apply a stricter per-category window;
// see FreshnessPolicy.IsStale.
func (e *CacheEntry) Expired(now time.Time) bool {
	deadline := e.LastRefreshedAt.Add(time.Duration(e.TTLSeconds) * time.Second)
	return now.After(deadline)
}
