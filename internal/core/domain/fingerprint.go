package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// queryTemplateVersion identifies the query-expansion template generation.
// Bumping it invalidates every cached entry, which is the intended effect
// when the shape of planned queries changes.
const queryTemplateVersion = "qt1"

// Fingerprint is the deterministic cache key derived from canonicalised
// request criteria. Equal criteria always yield equal fingerprints,
// regardless of set ordering or input case. It is also the single-flight
// lock key: at most one refresh per fingerprint is in flight at any time.
type Fingerprint string

// NewFingerprint canonicalises the criteria plus the source-provider
// identity and digests them. Pure function: no side effects, no clock,
// no network. Results fetched through different providers never share
// a cache entry.
func NewFingerprint(criteria RequestCriteria, provider string) (Fingerprint, error) {
	if err := criteria.Validate(); err != nil {
		return "", err
	}

	// Canonical form: template version, provider identity, sorted
	// lower-cased suppliers, top_n, sorted regions, sorted categories.
	// Field groups separated by an unlikely delimiter so no two criteria
	// collapse to one string.
	var b strings.Builder
	b.WriteString(queryTemplateVersion)
	b.WriteString("\x1f")
	b.WriteString(strings.ToLower(strings.TrimSpace(provider)))
	b.WriteString("\x1f")
	b.WriteString(strings.Join(criteria.canonicalSuppliers(), "\x1e"))
	b.WriteString("\x1f")
	b.WriteString(strconv.Itoa(criteria.TopN))
	b.WriteString("\x1f")
	b.WriteString(strings.Join(criteria.canonicalRegions(), "\x1e"))
	b.WriteString("\x1f")
	b.WriteString(strings.Join(criteria.canonicalCategories(), "\x1e"))

	sum := sha256.Sum256([]byte(b.String()))
	return Fingerprint(hex.EncodeToString(sum[:])), nil
}

// String returns the hex digest.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns a truncated digest for log lines.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}
