package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getter(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseParamsDefaults(t *testing.T) {
	params := ParseParams(getter(nil))

	assert.Equal(t, "", params.Query)
	assert.Nil(t, params.MinOrders)
	assert.Nil(t, params.MaxSpent)
	assert.Empty(t, params.Tags)
	assert.Equal(t, TagsModeAny, params.TagsMode)
	assert.Equal(t, SortLTVDesc, params.Sort)
	assert.Equal(t, DefaultPerPage, params.PerPage)
	assert.Equal(t, 1, params.Page)
	assert.False(t, params.Created.Requested())
	assert.False(t, params.FirstOrder.Requested())
}

func TestParseParamsFullSet(t *testing.T) {
	params := ParseParams(getter(map[string]string{
		"q":                 "  ada ",
		"min_orders":        "2",
		"max_orders":        "10",
		"min_spent":         "50.5",
		"max_spent":         "1000",
		"tags":              "VIP, Wholesale,,  retail ",
		"tags_mode":         "all",
		"created_start":     "2024-01-01",
		"created_end":       "2024-01-31",
		"first_order_start": "2023-06-01",
		"sort":              "orders_asc",
		"per_page":          "250",
		"page":              "3",
	}))

	assert.Equal(t, "ada", params.Query)
	require.NotNil(t, params.MinOrders)
	assert.Equal(t, 2, *params.MinOrders)
	require.NotNil(t, params.MaxOrders)
	assert.Equal(t, 10, *params.MaxOrders)
	require.NotNil(t, params.MinSpent)
	assert.Equal(t, 50.5, *params.MinSpent)
	assert.Equal(t, []string{"vip", "wholesale", "retail"}, params.Tags)
	assert.Equal(t, TagsModeAll, params.TagsMode)
	assert.Equal(t, SortOrdersAsc, params.Sort)
	assert.Equal(t, "250", params.PerPage)
	assert.Equal(t, 3, params.Page)

	require.NotNil(t, params.Created.Start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *params.Created.Start)
	require.NotNil(t, params.Created.End)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), *params.Created.End)
	require.NotNil(t, params.FirstOrder.Start)
	assert.Nil(t, params.FirstOrder.End)
}

func TestMalformedValuesDropTheirFilters(t *testing.T) {
	params := ParseParams(getter(map[string]string{
		"min_orders":    "abc",
		"max_orders":    "-3",
		"min_spent":     "12,50",
		"max_spent":     "-1",
		"created_start": "01/02/2024",
		"sort":          "name_desc",
		"per_page":      "75",
		"page":          "zero",
		"tags_mode":     "some",
	}))

	assert.Nil(t, params.MinOrders)
	assert.Nil(t, params.MaxOrders)
	assert.Nil(t, params.MinSpent)
	assert.Nil(t, params.MaxSpent)
	assert.False(t, params.Created.Requested())
	assert.Equal(t, SortLTVDesc, params.Sort)
	assert.Equal(t, DefaultPerPage, params.PerPage)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, TagsModeAny, params.TagsMode)
}

func TestParsePerPageAll(t *testing.T) {
	params := ParseParams(getter(map[string]string{"per_page": "all"}))
	assert.Equal(t, PerPageAll, params.PerPage)
}
