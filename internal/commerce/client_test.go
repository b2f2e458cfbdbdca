package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplens/internal/daterange"
)

// newTestClient points a Client at a local test server.
func newTestClient(serverURL string) *Client {
	return &Client{
		endpoint:    serverURL,
		accessToken: "token-123",
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCustomersPageDecoding(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Commerce-Access-Token")

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 250, int(req.Variables["first"].(float64)))
		assert.Equal(t, "cursor-a", req.Variables["after"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"customers": {
					"pageInfo": {"hasNextPage": true, "endCursor": "cursor-b"},
					"nodes": [
						{
							"id": "gid://shop/Customer/1",
							"displayName": "Ada Lovelace",
							"email": "ada@example.com",
							"numberOfOrders": "3",
							"amountSpent": {"amount": "120.50", "currencyCode": "USD"},
							"createdAt": "2024-01-02T10:00:00Z",
							"tags": ["VIP", "wholesale"],
							"firstOrder": {"nodes": [{"createdAt": "2024-01-05T09:00:00Z"}]}
						},
						{
							"id": "gid://shop/Customer/2",
							"displayName": "No Orders",
							"email": "new@example.com",
							"amountSpent": {"currencyCode": "USD"},
							"createdAt": "2024-02-01T08:00:00Z",
							"firstOrder": {"nodes": []}
						}
					]
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.CustomersPage(context.Background(), "cursor-a", 250)
	require.NoError(t, err)

	assert.Equal(t, "token-123", gotToken)
	assert.True(t, page.PageInfo.HasNextPage)
	assert.Equal(t, "cursor-b", page.PageInfo.EndCursor)
	require.Len(t, page.Customers, 2)

	first := page.Customers[0]
	assert.Equal(t, "Ada Lovelace", first.DisplayName)
	assert.Equal(t, 3, first.OrdersCount())
	assert.Equal(t, 120.50, first.SpentValue())
	assert.Equal(t, "USD", first.AmountSpent.CurrencyCode)
	require.NotNil(t, first.FirstOrder)
	assert.Equal(t, "2024-01-05T09:00:00Z", first.FirstOrderDate())

	second := page.Customers[1]
	assert.Equal(t, 0, second.OrdersCount())
	assert.Equal(t, 0.0, second.SpentValue())
	assert.Nil(t, second.FirstOrder)
}

func TestUpstreamErrorsAbortTheRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": null, "errors": [{"message": "throttled"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CustomersPage(context.Background(), "", 250)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSearchCustomerByEmailNoMatchReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "email:missing@example.com", req.Variables["query"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"customers": {"nodes": []}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	customer, err := client.SearchCustomerByEmail(context.Background(), " missing@example.com ")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestOrdersPageWindowQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t,
			"created_at:>='2024-01-01T00:00:00Z' created_at:<='2024-01-31T23:59:59Z'",
			req.Variables["query"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"orders": {
					"pageInfo": {"hasNextPage": false, "endCursor": ""},
					"nodes": [
						{"id": "gid://shop/Order/10", "createdAt": "2024-01-05T12:00:00Z", "customer": null},
						{
							"id": "gid://shop/Order/11",
							"createdAt": "2024-01-06T12:00:00Z",
							"customer": {
								"id": "gid://shop/Customer/7",
								"displayName": "Grace Hopper",
								"email": "grace@example.com",
								"numberOfOrders": "1",
								"amountSpent": {"amount": "42.00", "currencyCode": "EUR"},
								"createdAt": "2024-01-06T11:00:00Z",
								"firstOrder": {"nodes": [{"createdAt": "2024-01-06T12:00:00Z"}]}
							}
						}
					]
				}
			}
		}`))
	}))
	defer server.Close()

	window := daterange.Range{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	}

	client := newTestClient(server.URL)
	page, err := client.OrdersPage(context.Background(), "", 250, window)
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Nil(t, page.Orders[0].Customer)
	require.NotNil(t, page.Orders[1].Customer)
	assert.Equal(t, "Grace Hopper", page.Orders[1].Customer.DisplayName)
}

func TestMoneyAndCountCoercion(t *testing.T) {
	testCases := []struct {
		name     string
		customer Customer
		spent    float64
		orders   int
	}{
		{"missing amount", Customer{AmountSpent: Money{CurrencyCode: "USD"}}, 0, 0},
		{"malformed amount", Customer{AmountSpent: Money{Amount: "abc"}, NumberOfOrders: "x"}, 0, 0},
		{"negative clamps to zero", Customer{AmountSpent: Money{Amount: "-5"}, NumberOfOrders: "-2"}, 0, 0},
		{"valid values", Customer{AmountSpent: Money{Amount: " 99.95 "}, NumberOfOrders: "12"}, 99.95, 12},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.spent, tc.customer.SpentValue())
			assert.Equal(t, tc.orders, tc.customer.OrdersCount())
		})
	}
}

func TestNormalizedTags(t *testing.T) {
	c := Customer{Tags: []string{"VIP", " Wholesale ", "", "vip"}}
	assert.Equal(t, []string{"vip", "wholesale", "vip"}, c.NormalizedTags())
}
