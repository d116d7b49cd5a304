package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Region identifies a geographic focus for intelligence gathering.
type Region string

// Supported regions.
const (
	RegionUK           Region = "uk"
	RegionEU           Region = "eu"
	RegionNorthAmerica Region = "north-america"
	RegionAsiaPacific  Region = "asia-pacific"
	RegionGlobal       Region = "global"
)

// AllRegions lists every supported region in canonical order.
func AllRegions() []Region {
	return []Region{RegionUK, RegionEU, RegionNorthAmerica, RegionAsiaPacific, RegionGlobal}
}

// ParseRegion converts a string into a Region.
// Matching is case-insensitive and tolerant of surrounding whitespace.
func ParseRegion(s string) (Region, error) {
	normalised := Region(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range AllRegions() {
		if r == normalised {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown region %q", ErrInvalidCriteria, s)
}

// DisplayName returns the human-readable region name.
func (r Region) DisplayName() string {
	switch r {
	case RegionUK:
		return "United Kingdom"
	case RegionEU:
		return "European Union"
	case RegionNorthAmerica:
		return "North America"
	case RegionAsiaPacific:
		return "Asia Pacific"
	case RegionGlobal:
		return "Global"
	default:
		return string(r)
	}
}

// SearchTerm returns the phrasing used when the region is embedded
// in a search query.
func (r Region) SearchTerm() string {
	if r == RegionGlobal {
		return ""
	}
	return r.DisplayName()
}

// RequestCriteria describes one market-intelligence focus.
// It is immutable once submitted: the engine derives a Fingerprint
// from it and never mutates the original value.
type RequestCriteria struct {
	// SupplierNames are the suppliers to monitor, in submission order.
	SupplierNames []string

	// TopN is the number of results requested per query (>= 1).
	TopN int

	// Regions are the geographic areas of interest.
	Regions []Region

	// Categories are the intelligence categories of interest.
	Categories []Category
}

// Validate checks the criteria for structural validity.
// It does not touch the network and rejects bad input before
// any external call is made.
func (c RequestCriteria) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be >= 1, got %d", ErrInvalidCriteria, c.TopN)
	}
	if len(c.SupplierNames) == 0 {
		return fmt.Errorf("%w: at least one supplier name is required", ErrInvalidCriteria)
	}
	for _, name := range c.SupplierNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: supplier names must be non-empty", ErrInvalidCriteria)
		}
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrInvalidCriteria)
	}
	for _, cat := range c.Categories {
		if !cat.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidCriteria, cat)
		}
	}
	for _, region := range c.Regions {
		if _, err := ParseRegion(string(region)); err != nil {
			return err
		}
	}
	return nil
}

// canonicalSuppliers returns the supplier names lower-cased, trimmed,
// deduplicated and sorted. Used for fingerprinting so that input order
// and case never affect the cache key.
func (c RequestCriteria) canonicalSuppliers() []string {
	seen := make(map[string]bool, len(c.SupplierNames))
	out := make([]string, 0, len(c.SupplierNames))
	for _, name := range c.SupplierNames {
		canonical := strings.ToLower(strings.TrimSpace(name))
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

// canonicalRegions returns the regions deduplicated and sorted.
func (c RequestCriteria) canonicalRegions() []string {
	seen := make(map[string]bool, len(c.Regions))
	out := make([]string, 0, len(c.Regions))
	for _, r := range c.Regions {
		canonical := strings.ToLower(strings.TrimSpace(string(r)))
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

// canonicalCategories returns the categories deduplicated and sorted.
func (c RequestCriteria) canonicalCategories() []string {
	seen := make(map[string]bool, len(c.Categories))
	out := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		canonical := strings.ToLower(strings.TrimSpace(string(cat)))
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}
