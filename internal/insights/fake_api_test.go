package insights_test

import (
	"context"
	"strings"

	"shoplens/internal/commerce"
	"shoplens/internal/daterange"
)

// fakeAPI serves canned pages in sequence, standing in for the upstream
// commerce client in pipeline tests.
type fakeAPI struct {
	customerPages []commerce.CustomerPage
	orderPages    []commerce.OrderPage
	customersByEmail map[string]*commerce.Customer

	err           error
	customerCalls int
	orderCalls    int
}

func (f *fakeAPI) CustomersPage(_ context.Context, _ string, _ int) (commerce.CustomerPage, error) {
	if f.err != nil {
		return commerce.CustomerPage{}, f.err
	}
	if f.customerCalls >= len(f.customerPages) {
		return commerce.CustomerPage{}, nil
	}
	page := f.customerPages[f.customerCalls]
	f.customerCalls++
	return page, nil
}

func (f *fakeAPI) SearchCustomerByEmail(_ context.Context, email string) (*commerce.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.customersByEmail[strings.ToLower(email)], nil
}

func (f *fakeAPI) OrdersPage(_ context.Context, _ string, _ int, _ daterange.Range) (commerce.OrderPage, error) {
	if f.err != nil {
		return commerce.OrderPage{}, f.err
	}
	if f.orderCalls >= len(f.orderPages) {
		return commerce.OrderPage{}, nil
	}
	page := f.orderPages[f.orderCalls]
	f.orderCalls++
	return page, nil
}

var _ commerce.API = (*fakeAPI)(nil)
