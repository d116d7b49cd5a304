package domain

import "strings"

// Category classifies an intelligence alert.
type Category string

// Supported categories. CategoryGeneralNews is the catch-all that
// classifier output is mapped to when it names a category outside
// this set.
const (
	CategoryRegulatory  Category = "regulatory"
	CategoryFunding     Category = "funding"
	CategoryMarketTrend Category = "market-trend"
	CategorySupplyChain Category = "supply-chain"
	CategoryGeneralNews Category = "general-news"
)

// AllCategories lists every supported category in canonical order.
// The order is stable and used when grouping alerts for presentation.
func AllCategories() []Category {
	return []Category{
		CategoryRegulatory,
		CategoryFunding,
		CategoryMarketTrend,
		CategorySupplyChain,
		CategoryGeneralNews,
	}
}

// Valid reports whether the category is one of the supported set.
func (c Category) Valid() bool {
	switch c {
	case CategoryRegulatory, CategoryFunding, CategoryMarketTrend,
		CategorySupplyChain, CategoryGeneralNews:
		return true
	}
	return false
}

// DisplayName returns the human-readable category name.
func (c Category) DisplayName() string {
	switch c {
	case CategoryRegulatory:
		return "Regulatory & Policy"
	case CategoryFunding:
		return "Funding Round"
	case CategoryMarketTrend:
		return "Market Trend"
	case CategorySupplyChain:
		return "Supply Chain Risk"
	case CategoryGeneralNews:
		return "General Industry News"
	default:
		return string(c)
	}
}

// Icon returns the default icon used when the classifier omits one.
func (c Category) Icon() string {
	switch c {
	case CategoryRegulatory:
		return "⚖️"
	case CategoryFunding:
		return "💰"
	case CategoryMarketTrend:
		return "📊"
	case CategorySupplyChain:
		return "🚚"
	default:
		return "📰"
	}
}

// Colour returns the default card colour used when the classifier omits one.
func (c Category) Colour() string {
	switch c {
	case CategoryRegulatory:
		return "#6f42c1"
	case CategoryFunding:
		return "#28a745"
	case CategoryMarketTrend:
		return "#007bff"
	case CategorySupplyChain:
		return "#dc3545"
	default:
		return "#6c757d"
	}
}

// SearchTerm returns the phrasing used when the category is embedded
// in a search query.
func (c Category) SearchTerm() string {
	switch c {
	case CategoryRegulatory:
		return "regulatory changes compliance"
	case CategoryFunding:
		return "funding investment round"
	case CategoryMarketTrend:
		return "market trends pricing"
	case CategorySupplyChain:
		return "supply chain disruption"
	default:
		return "industry news"
	}
}

// ParseCategory converts a string into a Category.
// Unknown values are mapped to CategoryGeneralNews with ok=false,
// so callers can accept loosely-typed classifier output without
// trusting arbitrary strings.
func ParseCategory(s string) (Category, bool) {
	normalised := strings.ToLower(strings.TrimSpace(s))
	normalised = strings.ReplaceAll(normalised, " ", "-")
	normalised = strings.ReplaceAll(normalised, "_", "-")

	switch Category(normalised) {
	case CategoryRegulatory, CategoryFunding, CategoryMarketTrend,
		CategorySupplyChain, CategoryGeneralNews:
		return Category(normalised), true
	}

	// Common display-name spellings from classifier output.
	switch normalised {
	case "regulatory-&-policy", "regulatory-and-policy", "policy":
		return CategoryRegulatory, true
	case "funding-round", "investment":
		return CategoryFunding, true
	case "market-trends", "trend":
		return CategoryMarketTrend, true
	case "supply-chain-risk", "supply-chain-disruption":
		return CategorySupplyChain, true
	case "general-industry-news", "news":
		return CategoryGeneralNews, true
	}

	return CategoryGeneralNews, false
}
