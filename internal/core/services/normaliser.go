package services

import (
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// QueryResults pairs a planned query with the raw results it produced.
type QueryResults struct {
	// Query is the planned query string.
	Query string

	// Results are the provider's raw results in provider order.
	Results []domain.RawResult
}

// Normaliser converts raw provider results into canonical SourceRecords
// and deduplicates them. Synchronous and non-blocking: it never touches
// the network.
type Normaliser struct{}

// NewNormaliser creates a normaliser.
func NewNormaliser() *Normaliser {
	return &Normaliser{}
}

// Normalise flattens the per-query results (in the given order),
// removes exact URL duplicates, then removes near-duplicates whose
// normalised title+snippet hash matches one already kept. The
// first-seen instance wins; provider order is otherwise preserved.
// Results without a usable link are dropped.
func (n *Normaliser) Normalise(fp domain.Fingerprint, batches []QueryResults, fetchedAt time.Time) []domain.SourceRecord {
	seenURL := make(map[string]bool)
	seenContent := make(map[string]bool)
	var records []domain.SourceRecord

	for _, batch := range batches {
		for _, raw := range batch.Results {
			canonical := CanonicaliseURL(raw.Link)
			if canonical == "" || seenURL[canonical] {
				continue
			}

			hash := domain.ContentHash(raw.Title, raw.Snippet)
			if seenContent[hash] {
				continue
			}

			seenURL[canonical] = true
			seenContent[hash] = true
			records = append(records, domain.SourceRecord{
				URL:              canonical,
				Title:            strings.TrimSpace(raw.Title),
				Snippet:          strings.TrimSpace(raw.Snippet),
				FetchedAt:        fetchedAt,
				ContentHash:      hash,
				OriginatingQuery: batch.Query,
				Fingerprint:      fp,
			})
		}
	}

	return records
}

// CanonicaliseURL normalises a URL for duplicate detection: scheme and
// host are lower-cased, default ports and fragments are stripped, and
// a trailing slash on the path is trimmed. Returns "" for links that
// do not parse as absolute http(s) URLs.
func CanonicaliseURL(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ""
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}

	host := strings.ToLower(u.Host)
	if scheme == "http" {
		host = strings.TrimSuffix(host, ":80")
	} else {
		host = strings.TrimSuffix(host, ":443")
	}

	path := strings.TrimSuffix(u.Path, "/")

	canonical := scheme + "://" + host + path
	if u.RawQuery != "" {
		canonical += "?" + u.RawQuery
	}
	return canonical
}
