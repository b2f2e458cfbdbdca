package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"shoplens/internal/commerce"
)

// Result is a fully computed report: the page slice plus the aggregates
// the page renders alongside it.
type Result struct {
	Customers    []commerce.Customer `json:"customers"`
	Total        int                 `json:"total"`
	Page         int                 `json:"page"`
	PerPage      string              `json:"per_page"`
	TotalPages   int                 `json:"total_pages"`
	SpendBuckets []Bucket            `json:"spend_buckets"`
	OrderBuckets []Bucket            `json:"order_buckets"`
}

// Run fetches every customer, applies the filters and sort, builds both
// histograms over the filtered set and slices the requested page.
func Run(ctx context.Context, api commerce.API, params Params, pageSize int) (*Result, error) {
	customers, err := FetchAllCustomers(ctx, api, pageSize)
	if err != nil {
		return nil, err
	}
	return Compute(customers, params), nil
}

// Compute runs the in-memory half of the pipeline over an already fetched
// customer set.
func Compute(customers []commerce.Customer, params Params) *Result {
	filtered := Filter(customers, params)
	Sort(filtered, params.Sort)

	spendValues := make([]float64, len(filtered))
	orderValues := make([]float64, len(filtered))
	for i, customer := range filtered {
		spendValues[i] = customer.SpentValue()
		orderValues[i] = float64(customer.OrdersCount())
	}

	page, totalPages, slice := paginate(filtered, params.Page, params.PerPage)

	return &Result{
		Customers:    slice,
		Total:        len(filtered),
		Page:         page,
		PerPage:      params.PerPage,
		TotalPages:   totalPages,
		SpendBuckets: BuildHistogram(spendValues, SpendEdges),
		OrderBuckets: BuildHistogram(orderValues, OrderEdges),
	}
}

// FetchAllCustomers walks the cursor pagination to exhaustion. The report
// view carries no item cap; bounding happens upstream via page size only.
func FetchAllCustomers(ctx context.Context, api commerce.API, pageSize int) ([]commerce.Customer, error) {
	customers := []commerce.Customer{}
	cursor := ""
	for {
		page, err := api.CustomersPage(ctx, cursor, pageSize)
		if err != nil {
			return nil, fmt.Errorf("report: customer walk failed: %w", err)
		}
		customers = append(customers, page.Customers...)
		if !page.PageInfo.HasNextPage {
			return customers, nil
		}
		cursor = page.PageInfo.EndCursor
	}
}

// Filter keeps the customers that pass every requested predicate. The
// predicates are independent, so application order does not matter.
func Filter(customers []commerce.Customer, params Params) []commerce.Customer {
	filtered := []commerce.Customer{}
	for _, customer := range customers {
		if matchesAll(customer, params) {
			filtered = append(filtered, customer)
		}
	}
	return filtered
}

func matchesAll(customer commerce.Customer, params Params) bool {
	return matchesQuery(customer, params.Query) &&
		matchesOrderBounds(customer, params.MinOrders, params.MaxOrders) &&
		matchesSpendBounds(customer, params.MinSpent, params.MaxSpent) &&
		matchesTags(customer, params.Tags, params.TagsMode) &&
		matchesCreated(customer, params.Created) &&
		matchesFirstOrder(customer, params.FirstOrder)
}

func matchesQuery(customer commerce.Customer, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(customer.DisplayName), needle) ||
		strings.Contains(strings.ToLower(customer.Email), needle)
}

func matchesOrderBounds(customer commerce.Customer, minOrders, maxOrders *int) bool {
	orders := customer.OrdersCount()
	if minOrders != nil && orders < *minOrders {
		return false
	}
	if maxOrders != nil && orders > *maxOrders {
		return false
	}
	return true
}

func matchesSpendBounds(customer commerce.Customer, minSpent, maxSpent *float64) bool {
	spent := customer.SpentValue()
	if minSpent != nil && spent < *minSpent {
		return false
	}
	if maxSpent != nil && spent > *maxSpent {
		return false
	}
	return true
}

func matchesTags(customer commerce.Customer, tags []string, mode TagsMode) bool {
	if len(tags) == 0 {
		return true
	}

	have := map[string]bool{}
	for _, tag := range customer.NormalizedTags() {
		have[tag] = true
	}

	if mode == TagsModeAll {
		for _, tag := range tags {
			if !have[tag] {
				return false
			}
		}
		return true
	}

	for _, tag := range tags {
		if have[tag] {
			return true
		}
	}
	return false
}

// A requested date bound excludes customers missing the field outright.
func matchesCreated(customer commerce.Customer, bound DateBound) bool {
	if !bound.Requested() {
		return true
	}
	createdAt, ok := customer.CreatedAtTime()
	if !ok {
		return false
	}
	return bound.contains(createdAt)
}

func matchesFirstOrder(customer commerce.Customer, bound DateBound) bool {
	if !bound.Requested() {
		return true
	}
	firstOrderAt, ok := customer.FirstOrderTime()
	if !ok {
		return false
	}
	return bound.contains(firstOrderAt)
}

// Sort orders the set in place by the requested key, breaking ties on the
// other metric in the same direction.
func Sort(customers []commerce.Customer, key SortKey) {
	sort.SliceStable(customers, comparator(customers, key))
}

func comparator(customers []commerce.Customer, key SortKey) func(i, j int) bool {
	switch key {
	case SortLTVAsc:
		return func(i, j int) bool {
			a, b := customers[i], customers[j]
			if a.SpentValue() != b.SpentValue() {
				return a.SpentValue() < b.SpentValue()
			}
			return a.OrdersCount() < b.OrdersCount()
		}
	case SortOrdersDesc:
		return func(i, j int) bool {
			a, b := customers[i], customers[j]
			if a.OrdersCount() != b.OrdersCount() {
				return a.OrdersCount() > b.OrdersCount()
			}
			return a.SpentValue() > b.SpentValue()
		}
	case SortOrdersAsc:
		return func(i, j int) bool {
			a, b := customers[i], customers[j]
			if a.OrdersCount() != b.OrdersCount() {
				return a.OrdersCount() < b.OrdersCount()
			}
			return a.SpentValue() < b.SpentValue()
		}
	default: // SortLTVDesc
		return func(i, j int) bool {
			a, b := customers[i], customers[j]
			if a.SpentValue() != b.SpentValue() {
				return a.SpentValue() > b.SpentValue()
			}
			return a.OrdersCount() > b.OrdersCount()
		}
	}
}

func paginate(customers []commerce.Customer, requestedPage int, perPage string) (page, totalPages int, slice []commerce.Customer) {
	size := perPageOptions[DefaultPerPage]
	if perPage == PerPageAll {
		size = len(customers)
		if size < 1 {
			size = 1
		}
	} else if known, ok := perPageOptions[perPage]; ok {
		size = known
	}

	totalPages = (len(customers) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page = requestedPage
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	if start > len(customers) {
		start = len(customers)
	}
	end := start + size
	if end > len(customers) {
		end = len(customers)
	}
	return page, totalPages, customers[start:end]
}
