package domain

import "time"

// Default per-category freshness windows. Regulatory output moves
// slowly; general news churns hourly.
const (
	DefaultRegulatoryTTL  = 24 * time.Hour
	DefaultFundingTTL     = 6 * time.Hour
	DefaultMarketTrendTTL = 6 * time.Hour
	DefaultSupplyChainTTL = 3 * time.Hour
	DefaultGeneralNewsTTL = 1 * time.Hour
)

// FreshnessPolicy decides whether a cached entry is stale for a given
// category set. Pure and side-effect-free: it never touches the network.
type FreshnessPolicy struct {
	ttls map[Category]time.Duration
}

// DefaultFreshnessPolicy returns the policy with built-in TTLs.
func DefaultFreshnessPolicy() *FreshnessPolicy {
	return &FreshnessPolicy{
		ttls: map[Category]time.Duration{
			CategoryRegulatory:  DefaultRegulatoryTTL,
			CategoryFunding:     DefaultFundingTTL,
			CategoryMarketTrend: DefaultMarketTrendTTL,
			CategorySupplyChain: DefaultSupplyChainTTL,
			CategoryGeneralNews: DefaultGeneralNewsTTL,
		},
	}
}

// NewFreshnessPolicy returns the default policy with the given
// per-category overrides applied. Zero or negative overrides are ignored.
func NewFreshnessPolicy(overrides map[Category]time.Duration) *FreshnessPolicy {
	p := DefaultFreshnessPolicy()
	for cat, ttl := range overrides {
		if ttl > 0 && cat.Valid() {
			p.ttls[cat] = ttl
		}
	}
	return p
}

// TTL returns the freshness window for a single category.
func (p *FreshnessPolicy) TTL(category Category) time.Duration {
	if ttl, ok := p.ttls[category]; ok {
		return ttl
	}
	return DefaultGeneralNewsTTL
}

// TTLFor returns the effective window for a category set: the minimum
// TTL across the categories present, so a mixed request refreshes as
// often as its most time-sensitive category demands.
func (p *FreshnessPolicy) TTLFor(categories []Category) time.Duration {
	if len(categories) == 0 {
		return DefaultGeneralNewsTTL
	}
	min := p.TTL(categories[0])
	for _, cat := range categories[1:] {
		if ttl := p.TTL(cat); ttl < min {
			min = ttl
		}
	}
	return min
}

// IsStale reports whether the entry must be refreshed for the given
// category set. An absent entry is always stale.
func (p *FreshnessPolicy) IsStale(entry *CacheEntry, categories []Category, now time.Time) bool {
	if entry == nil {
		return true
	}
	return entry.Age(now) > p.TTLFor(categories)
}
