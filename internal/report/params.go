// Package report implements the customer report pipeline: an unbounded
// customer walk followed by in-memory filtering, sorting, histogram
// bucketing, pagination and CSV export.
package report

import (
	"strconv"
	"strings"
	"time"

	"shoplens/internal/daterange"
)

// TagsMode selects how a multi-tag filter combines.
type TagsMode string

const (
	TagsModeAny TagsMode = "any"
	TagsModeAll TagsMode = "all"
)

// SortKey is one of the four supported report orderings.
type SortKey string

const (
	SortLTVDesc    SortKey = "ltv_desc"
	SortLTVAsc     SortKey = "ltv_asc"
	SortOrdersDesc SortKey = "orders_desc"
	SortOrdersAsc  SortKey = "orders_asc"
)

const DefaultPerPage = "50"

var perPageOptions = map[string]int{
	"50":  50,
	"100": 100,
	"250": 250,
	"500": 500,
}

// PerPageAll selects a single page holding the whole filtered set.
const PerPageAll = "all"

// DateBound is an optional inclusive day-range bound on a date field.
type DateBound struct {
	Start *time.Time
	End   *time.Time
}

// Requested reports whether either side of the bound is set.
func (b DateBound) Requested() bool {
	return b.Start != nil || b.End != nil
}

func (b DateBound) contains(t time.Time) bool {
	if b.Start != nil && t.Before(*b.Start) {
		return false
	}
	if b.End != nil && t.After(*b.End) {
		return false
	}
	return true
}

// Params is the parsed report request. Malformed individual values are
// dropped at parse time so the matching predicate simply is not applied.
type Params struct {
	Query      string
	MinOrders  *int
	MaxOrders  *int
	MinSpent   *float64
	MaxSpent   *float64
	Tags       []string
	TagsMode   TagsMode
	Created    DateBound
	FirstOrder DateBound
	Sort       SortKey
	PerPage    string
	Page       int
}

// ParseParams reads the report query parameters through the supplied
// getter. Every field degrades independently: a value that fails to parse
// leaves its filter unset instead of failing the request.
func ParseParams(get func(key string) string) Params {
	params := Params{
		Query:    strings.TrimSpace(get("q")),
		Tags:     splitTags(get("tags")),
		TagsMode: parseTagsMode(get("tags_mode")),
		Sort:     parseSortKey(get("sort")),
		PerPage:  parsePerPage(get("per_page")),
		Page:     parsePage(get("page")),
	}

	params.MinOrders = parseCount(get("min_orders"))
	params.MaxOrders = parseCount(get("max_orders"))
	params.MinSpent = parseAmount(get("min_spent"))
	params.MaxSpent = parseAmount(get("max_spent"))

	params.Created = DateBound{
		Start: parseDayStart(get("created_start")),
		End:   parseDayEnd(get("created_end")),
	}
	params.FirstOrder = DateBound{
		Start: parseDayStart(get("first_order_start")),
		End:   parseDayEnd(get("first_order_end")),
	}

	return params
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseTagsMode(raw string) TagsMode {
	if TagsMode(raw) == TagsModeAll {
		return TagsModeAll
	}
	return TagsModeAny
}

func parseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortLTVAsc, SortOrdersDesc, SortOrdersAsc:
		return SortKey(raw)
	default:
		return SortLTVDesc
	}
}

func parsePerPage(raw string) string {
	if raw == PerPageAll {
		return PerPageAll
	}
	if _, ok := perPageOptions[raw]; ok {
		return raw
	}
	return DefaultPerPage
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseCount(raw string) *int {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

func parseAmount(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

func parseDayStart(raw string) *time.Time {
	day, err := time.Parse(daterange.DateFormat, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return &start
}

func parseDayEnd(raw string) *time.Time {
	day, err := time.Parse(daterange.DateFormat, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
	return &end
}
