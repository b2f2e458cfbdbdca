package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"shoplens/internal/commerce"
	"shoplens/internal/daterange"
)

// NewCustomersConfig bounds the order-window walk.
type NewCustomersConfig struct {
	PageSize int
	OrderCap int
}

// NewCustomer is a customer whose first order fell inside the window.
type NewCustomer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Orders         int     `json:"orders"`
	Spent          float64 `json:"spent"`
	FirstOrderDate string  `json:"first_order_date"`
	UsedFallback   bool    `json:"used_fallback"`
}

// NewCustomersReport lists the window's new customers plus advisory notes.
type NewCustomersReport struct {
	Customers               []NewCustomer `json:"customers"`
	OrdersScanned           int           `json:"orders_scanned"`
	OrdersTruncated         bool          `json:"orders_truncated"`
	UsedNewCustomerFallback bool          `json:"used_new_customer_fallback"`
}

// FetchNewCustomers walks orders created within window, creation ascending,
// and derives new-customer status per order's customer.
//
// Primary rule: the customer's own first-order timestamp falls inside the
// window. Fallback: a customer with no resolvable first-order date but a
// lifetime order count of exactly one is treated as placing their first
// order now, and the report notes the fallback was used. Customers are
// deduplicated by ID, first occurrence wins.
func FetchNewCustomers(ctx context.Context, api commerce.API, window daterange.Range, cfg NewCustomersConfig) (*NewCustomersReport, error) {
	report := &NewCustomersReport{Customers: []NewCustomer{}}
	seen := map[string]bool{}

	cursor := ""
	for {
		page, err := api.OrdersPage(ctx, cursor, cfg.PageSize, window)
		if err != nil {
			return nil, fmt.Errorf("insights: order walk failed: %w", err)
		}

		for _, order := range page.Orders {
			if report.OrdersScanned >= cfg.OrderCap {
				report.OrdersTruncated = true
				break
			}
			report.OrdersScanned++

			customer := order.Customer
			if customer == nil || seen[customer.ID] {
				continue
			}
			seen[customer.ID] = true

			if entry, ok := classifyNewCustomer(order, *customer, window); ok {
				if entry.UsedFallback {
					report.UsedNewCustomerFallback = true
				}
				report.Customers = append(report.Customers, entry)
			}
		}

		if report.OrdersTruncated {
			break
		}
		if report.OrdersScanned >= cfg.OrderCap {
			if page.PageInfo.HasNextPage {
				report.OrdersTruncated = true
			}
			break
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = page.PageInfo.EndCursor
	}

	sort.SliceStable(report.Customers, func(i, j int) bool {
		return strings.Compare(report.Customers[i].FirstOrderDate, report.Customers[j].FirstOrderDate) < 0
	})

	return report, nil
}

func classifyNewCustomer(order commerce.Order, customer commerce.Customer, window daterange.Range) (NewCustomer, bool) {
	entry := NewCustomer{
		ID:     customer.ID,
		Name:   customer.DisplayName,
		Email:  customer.Email,
		Orders: customer.OrdersCount(),
		Spent:  customer.SpentValue(),
	}

	if firstOrderAt, ok := customer.FirstOrderTime(); ok {
		if !window.Contains(firstOrderAt) {
			return NewCustomer{}, false
		}
		entry.FirstOrderDate = isoDay(customer.FirstOrderDate())
		return entry, true
	}

	// No resolvable first-order date: a single lifetime order means the
	// order at hand has to be the first one.
	if customer.OrdersCount() == 1 {
		entry.FirstOrderDate = isoDay(order.CreatedAt)
		entry.UsedFallback = true
		return entry, true
	}

	return NewCustomer{}, false
}
