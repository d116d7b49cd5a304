package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// DefaultMaxQueries caps the number of queries planned per cycle to
// bound external cost.
const DefaultMaxQueries = 15

// QueryPlanner expands request criteria into a bounded, ordered list
// of search queries. Supplier-specific queries come first so that the
// cap trims the broad tail, not the targeted head.
type QueryPlanner struct {
	maxQueries int
}

// NewQueryPlanner creates a planner. maxQueries <= 0 selects the default cap.
func NewQueryPlanner(maxQueries int) *QueryPlanner {
	if maxQueries <= 0 {
		maxQueries = DefaultMaxQueries
	}
	return &QueryPlanner{maxQueries: maxQueries}
}

// Plan returns the query strings for one fetch cycle, deduplicated and
// capped. The expansion is deterministic for given criteria.
func (p *QueryPlanner) Plan(criteria domain.RequestCriteria) []string {
	regions := criteria.Regions
	if len(regions) == 0 {
		regions = []domain.Region{domain.RegionGlobal}
	}

	seen := make(map[string]bool)
	queries := make([]string, 0, p.maxQueries)

	add := func(parts ...string) {
		if len(queries) >= p.maxQueries {
			return
		}
		query := strings.Join(compactParts(parts), " ")
		if query == "" || seen[query] {
			return
		}
		seen[query] = true
		queries = append(queries, query)
	}

	// Targeted: supplier x category x region.
	for _, supplier := range criteria.SupplierNames {
		for _, category := range criteria.Categories {
			for _, region := range regions {
				add(strings.TrimSpace(supplier), category.SearchTerm(), region.SearchTerm())
			}
		}
	}

	// Broad tail: category x region market outlook queries.
	for _, category := range criteria.Categories {
		for _, region := range regions {
			add(fmt.Sprintf("%s industry", category.DisplayName()), region.SearchTerm(), "market outlook")
		}
	}

	return queries
}

// compactParts drops empty parts so global-region queries read naturally.
func compactParts(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}
