package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// criteriaFlags holds the shared request-criteria flag values.
type criteriaFlags struct {
	suppliers  []string
	regions    []string
	categories []string
	topN       int
}

// register binds the criteria flags onto a command.
func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.suppliers, "suppliers", "s", nil, "supplier names to monitor (required)")
	cmd.Flags().StringSliceVarP(&f.regions, "regions", "r", nil, "regions of interest (uk, eu, north-america, asia-pacific, global)")
	cmd.Flags().StringSliceVarP(&f.categories, "categories", "c", nil, "categories of interest (default: all)")
	cmd.Flags().IntVarP(&f.topN, "top-n", "n", 5, "results requested per query")
	cmd.MarkFlagRequired("suppliers") //nolint:errcheck
}

// criteria converts the flag values into validated request criteria.
func (f *criteriaFlags) criteria() (domain.RequestCriteria, error) {
	criteria := domain.RequestCriteria{
		SupplierNames: f.suppliers,
		TopN:          f.topN,
	}

	for _, r := range f.regions {
		region, err := domain.ParseRegion(r)
		if err != nil {
			return domain.RequestCriteria{}, err
		}
		criteria.Regions = append(criteria.Regions, region)
	}

	if len(f.categories) == 0 {
		criteria.Categories = domain.AllCategories()
	} else {
		for _, c := range f.categories {
			cat, ok := domain.ParseCategory(c)
			if !ok {
				return domain.RequestCriteria{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidCriteria, c)
			}
			criteria.Categories = append(criteria.Categories, cat)
		}
	}

	return criteria, criteria.Validate()
}
