// Package insights runs the request-scoped aggregation pipelines behind the
// analytics page: the customer overview walk, the single-customer lookup,
// and the new-customer order scan. All walks are sequential and bounded by
// injected item caps; hitting a cap is a reported degradation, not an error.
package insights

import (
	"context"
	"fmt"
	"sort"

	"shoplens/internal/commerce"
)

// OverviewConfig bounds the customer overview walk.
type OverviewConfig struct {
	PageSize    int
	CustomerCap int
	TopCount    int
}

// TopCustomer is one entry of the bounded top-spenders list.
type TopCustomer struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Orders int     `json:"orders"`
	Spent  float64 `json:"spent"`
}

// Overview aggregates lifetime value across the walked customer set.
type Overview struct {
	TotalCustomers     int           `json:"total_customers"`
	TotalCLV           float64       `json:"total_clv"`
	AverageCLV         float64       `json:"average_clv"`
	CurrencyCode       string        `json:"currency_code"`
	TopCustomers       []TopCustomer `json:"top_customers"`
	CustomersTruncated bool          `json:"customers_truncated"`
}

// FetchOverview walks customer pages until the upstream has no more pages or
// the customer cap is reached, accumulating CLV totals and a bounded top list.
// The currency code is last-seen-wins across pages.
func FetchOverview(ctx context.Context, api commerce.API, cfg OverviewConfig) (*Overview, error) {
	overview := &Overview{TopCustomers: []TopCustomer{}}

	cursor := ""
	for {
		page, err := api.CustomersPage(ctx, cursor, cfg.PageSize)
		if err != nil {
			return nil, fmt.Errorf("insights: customer walk failed: %w", err)
		}

		for _, customer := range page.Customers {
			if overview.TotalCustomers >= cfg.CustomerCap {
				// More customers remain in this very page beyond the cap.
				overview.CustomersTruncated = true
				break
			}

			spent := customer.SpentValue()
			overview.TotalCustomers++
			overview.TotalCLV += spent
			if code := customer.AmountSpent.CurrencyCode; code != "" {
				overview.CurrencyCode = code
			}

			overview.TopCustomers = insertTopCustomer(overview.TopCustomers, TopCustomer{
				ID:     customer.ID,
				Name:   customer.DisplayName,
				Email:  customer.Email,
				Orders: customer.OrdersCount(),
				Spent:  spent,
			}, cfg.TopCount)
		}

		if overview.CustomersTruncated {
			break
		}
		if overview.TotalCustomers >= cfg.CustomerCap {
			if page.PageInfo.HasNextPage {
				overview.CustomersTruncated = true
			}
			break
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = page.PageInfo.EndCursor
	}

	if overview.TotalCustomers > 0 {
		overview.AverageCLV = overview.TotalCLV / float64(overview.TotalCustomers)
	}

	return overview, nil
}

// insertTopCustomer appends the candidate, re-sorts by spend descending and
// truncates to limit. O(n log n) per insert, fine at the top-10 scale.
func insertTopCustomer(top []TopCustomer, candidate TopCustomer, limit int) []TopCustomer {
	top = append(top, candidate)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Spent > top[j].Spent
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}
