package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

func TestBuildCriteria_Defaults(t *testing.T) {
	criteria, err := buildCriteria([]string{"Acme"}, nil, nil, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, criteria.SupplierNames)
	assert.Equal(t, 5, criteria.TopN)
	assert.Empty(t, criteria.Regions)
	assert.Equal(t, domain.AllCategories(), criteria.Categories)
}

func TestBuildCriteria_ParsesRegionsAndCategories(t *testing.T) {
	criteria, err := buildCriteria(
		[]string{"Acme"},
		[]string{"uk", "asia-pacific"},
		[]string{"funding", "regulatory"},
		10,
	)

	require.NoError(t, err)
	assert.Equal(t, 10, criteria.TopN)
	assert.Equal(t, []domain.Region{domain.RegionUK, domain.RegionAsiaPacific}, criteria.Regions)
	assert.Equal(t, []domain.Category{domain.CategoryFunding, domain.CategoryRegulatory}, criteria.Categories)
}

func TestBuildCriteria_UnknownRegion(t *testing.T) {
	_, err := buildCriteria([]string{"Acme"}, []string{"atlantis"}, nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCriteria)
}

func TestBuildCriteria_UnknownCategory(t *testing.T) {
	_, err := buildCriteria([]string{"Acme"}, nil, []string{"celebrity-gossip"}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCriteria)
}

func TestBuildCriteria_NoSuppliers(t *testing.T) {
	_, err := buildCriteria(nil, nil, nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCriteria)
}

func TestMapGroups(t *testing.T) {
	seen := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	groups := []domain.AlertGroup{{
		Category: domain.CategoryFunding,
		Alerts: []domain.Alert{{
			Category:    domain.CategoryFunding,
			Title:       "Acme closes series B",
			Description: "desc",
			Icon:        domain.CategoryFunding.Icon(),
			Colour:      domain.CategoryFunding.Colour(),
			SourceLink:  "https://example.com/story",
			FirstSeenAt: seen,
		}},
	}}

	out := mapGroups(groups)

	require.Len(t, out, 1)
	assert.Equal(t, "funding", out[0].Category)
	assert.Equal(t, 1, out[0].Count)
	require.Len(t, out[0].Alerts, 1)
	assert.Equal(t, "Acme closes series B", out[0].Alerts[0].Title)
	assert.Equal(t, "2026-03-01T09:30:00Z", out[0].Alerts[0].FirstSeenAt)
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingEngine)
}
