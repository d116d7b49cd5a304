package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlertDedupKey_Stable(t *testing.T) {
	key1 := AlertDedupKey(CategoryFunding, "Acme raises series B", "https://news.example.com/story")
	key2 := AlertDedupKey(CategoryFunding, "Acme raises series B", "https://news.example.com/story")
	assert.Equal(t, key1, key2)
}

func TestAlertDedupKey_TitleNormalised(t *testing.T) {
	key1 := AlertDedupKey(CategoryFunding, "Acme  raises   Series B", "https://news.example.com/a")
	key2 := AlertDedupKey(CategoryFunding, "acme raises series b", "https://news.example.com/b")

	// Same publisher host, same normalised title: same event.
	assert.Equal(t, key1, key2)
}

func TestAlertDedupKey_HostDropsWWW(t *testing.T) {
	key1 := AlertDedupKey(CategoryFunding, "Acme raises", "https://www.example.com/a")
	key2 := AlertDedupKey(CategoryFunding, "Acme raises", "https://example.com/b")
	assert.Equal(t, key1, key2)
}

func TestAlertDedupKey_CategoryMatters(t *testing.T) {
	key1 := AlertDedupKey(CategoryFunding, "Acme raises", "https://example.com/a")
	key2 := AlertDedupKey(CategoryMarketTrend, "Acme raises", "https://example.com/a")
	assert.NotEqual(t, key1, key2)
}

func TestAlertDedupKey_DifferentPublishers(t *testing.T) {
	key1 := AlertDedupKey(CategoryFunding, "Acme raises", "https://example.com/a")
	key2 := AlertDedupKey(CategoryFunding, "Acme raises", "https://other.com/a")
	assert.NotEqual(t, key1, key2)
}

func TestClampWords(t *testing.T) {
	assert.Equal(t, "one two three", ClampWords("one two three", 10))
	assert.Equal(t, "one two", ClampWords("one two three", 2))
	assert.Equal(t, "", ClampWords("", 5))
	// Whitespace runs collapse.
	assert.Equal(t, "one two", ClampWords("  one   two  ", 10))
}

func TestGroupAlerts_CanonicalOrder(t *testing.T) {
	alerts := []Alert{
		{Category: CategoryGeneralNews, Title: "n1"},
		{Category: CategoryRegulatory, Title: "r1"},
		{Category: CategoryGeneralNews, Title: "n2"},
		{Category: CategoryFunding, Title: "f1"},
	}

	groups := GroupAlerts(alerts)

	// Empty categories omitted; groups appear in canonical order.
	assert.Len(t, groups, 3)
	assert.Equal(t, CategoryRegulatory, groups[0].Category)
	assert.Equal(t, CategoryFunding, groups[1].Category)
	assert.Equal(t, CategoryGeneralNews, groups[2].Category)

	// Alerts within a group keep their given order.
	assert.Equal(t, 2, groups[2].Count())
	assert.Equal(t, "n1", groups[2].Alerts[0].Title)
	assert.Equal(t, "n2", groups[2].Alerts[1].Title)
}

func TestGroupAlerts_Empty(t *testing.T) {
	assert.Empty(t, GroupAlerts(nil))
}

func TestCycleResult_AlertCount(t *testing.T) {
	result := &CycleResult{
		Groups: []AlertGroup{
			{Category: CategoryFunding, Alerts: []Alert{{}, {}}},
			{Category: CategoryGeneralNews, Alerts: []Alert{{}}},
		},
		CompletedAt: time.Now(),
	}
	assert.Equal(t, 3, result.AlertCount())
}
