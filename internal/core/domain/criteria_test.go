package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestCriteria_Validate_Success(t *testing.T) {
	criteria := RequestCriteria{
		SupplierNames: []string{"Acme"},
		TopN:          1,
		Categories:    []Category{CategoryFunding},
	}
	assert.NoError(t, criteria.Validate())
}

func TestRequestCriteria_Validate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		criteria RequestCriteria
	}{
		{
			name: "zero top_n",
			criteria: RequestCriteria{
				SupplierNames: []string{"Acme"},
				Categories:    []Category{CategoryFunding},
			},
		},
		{
			name: "no suppliers",
			criteria: RequestCriteria{
				TopN:       5,
				Categories: []Category{CategoryFunding},
			},
		},
		{
			name: "blank supplier",
			criteria: RequestCriteria{
				SupplierNames: []string{"Acme", "  "},
				TopN:          5,
				Categories:    []Category{CategoryFunding},
			},
		},
		{
			name: "no categories",
			criteria: RequestCriteria{
				SupplierNames: []string{"Acme"},
				TopN:          5,
			},
		},
		{
			name: "unknown category",
			criteria: RequestCriteria{
				SupplierNames: []string{"Acme"},
				TopN:          5,
				Categories:    []Category{"bogus"},
			},
		},
		{
			name: "unknown region",
			criteria: RequestCriteria{
				SupplierNames: []string{"Acme"},
				TopN:          5,
				Categories:    []Category{CategoryFunding},
				Regions:       []Region{"atlantis"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.criteria.Validate(), ErrInvalidCriteria)
		})
	}
}

func TestContentHash_Invariance(t *testing.T) {
	h1 := ContentHash("Acme Raises  Funds", "A big  round")
	h2 := ContentHash("acme raises funds", "a big round")
	assert.Equal(t, h1, h2)

	h3 := ContentHash("Different title", "a big round")
	assert.NotEqual(t, h1, h3)
}
