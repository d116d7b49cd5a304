package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// Word bounds enforced on classifier output.
const (
	// MaxTitleWords bounds the alert title length.
	MaxTitleWords = 10

	// MaxDescriptionWords bounds the alert description length.
	MaxDescriptionWords = 25
)

// Alert is a classified intelligence event. Alerts are append-only:
// a re-sighted dedup key bumps LastConfirmedAt rather than creating
// a duplicate, and the first classification's presentation fields win.
type Alert struct {
	// ID is the unique identifier for the alert.
	ID string `json:"id"`

	// Fingerprint scopes the alert to the request focus that produced it.
	Fingerprint Fingerprint `json:"fingerprint"`

	// Category classifies the event.
	Category Category `json:"category"`

	// Title is the short headline (at most MaxTitleWords words).
	Title string `json:"title"`

	// Description is the summary (at most MaxDescriptionWords words).
	Description string `json:"description"`

	// Icon is the presentation icon for the alert card.
	Icon string `json:"icon"`

	// Colour is the presentation colour for the alert card.
	Colour string `json:"color"`

	// SourceLink is the URL of the supporting evidence.
	SourceLink string `json:"source_link"`

	// DedupKey identifies the same real-world event across refresh cycles.
	DedupKey string `json:"dedup_key"`

	// FirstSeenAt is when the event was first classified.
	FirstSeenAt time.Time `json:"first_seen_at"`

	// LastConfirmedAt is when the event was most recently re-confirmed.
	LastConfirmedAt time.Time `json:"last_confirmed_at"`
}

// AlertDedupKey digests (category, normalised title, source-link host).
// Two classification passes that describe the same event with the same
// headline against the same publisher collapse to one alert.
func AlertDedupKey(category Category, title, sourceLink string) string {
	normalisedTitle := strings.ToLower(strings.Join(strings.Fields(title), " "))
	host := sourceLinkHost(sourceLink)
	sum := sha256.Sum256([]byte(string(category) + "\x1f" + normalisedTitle + "\x1f" + host))
	return hex.EncodeToString(sum[:])
}

// sourceLinkHost extracts the lower-cased host from a link,
// dropping any www prefix. Falls back to the raw string when
// the link does not parse.
func sourceLinkHost(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(link))
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// ClampWords truncates text to at most limit words.
func ClampWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ")
}

// AlertGroup is one category's alerts, for grouped presentation.
type AlertGroup struct {
	// Category is the group key.
	Category Category `json:"category"`

	// Alerts are the group members in first-seen order.
	Alerts []Alert `json:"alerts"`
}

// Count returns the number of alerts in the group.
func (g AlertGroup) Count() int {
	return len(g.Alerts)
}

// GroupAlerts partitions alerts by category. Groups appear in canonical
// category order; alerts within a group keep their given order. Empty
// categories are omitted.
func GroupAlerts(alerts []Alert) []AlertGroup {
	byCategory := make(map[Category][]Alert, len(AllCategories()))
	for _, alert := range alerts {
		byCategory[alert.Category] = append(byCategory[alert.Category], alert)
	}

	groups := make([]AlertGroup, 0, len(byCategory))
	for _, cat := range AllCategories() {
		if members, ok := byCategory[cat]; ok {
			groups = append(groups, AlertGroup{Category: cat, Alerts: members})
		}
	}
	return groups
}
