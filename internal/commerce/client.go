package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shoplens/internal/daterange"
)

// API is the cursor-paginated query interface the aggregation pipelines
// consume. Implementations walk one page per call; callers own the loop.
type API interface {
	// CustomersPage fetches one page of customers starting after cursor.
	// An empty cursor requests the first page.
	CustomersPage(ctx context.Context, cursor string, pageSize int) (CustomerPage, error)

	// SearchCustomerByEmail issues an exact-match email query limited to one
	// result, including the customer's first order and its referral snapshot.
	// Returns nil when no customer matches.
	SearchCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	// OrdersPage fetches one page of orders created within window, in
	// creation-ascending order, starting after cursor.
	OrdersPage(ctx context.Context, cursor string, pageSize int, window daterange.Range) (OrderPage, error)
}

const customersPageQuery = `
query CustomersPage($first: Int!, $after: String) {
  customers(first: $first, after: $after) {
    pageInfo { hasNextPage endCursor }
    nodes {
      id
      displayName
      email
      numberOfOrders
      amountSpent { amount currencyCode }
      createdAt
      tags
      firstOrder: orders(first: 1, sortKey: CREATED_AT) {
        nodes { createdAt }
      }
    }
  }
}`

const customerByEmailQuery = `
query CustomerByEmail($query: String!) {
  customers(first: 1, query: $query) {
    nodes {
      id
      displayName
      email
      numberOfOrders
      amountSpent { amount currencyCode }
      createdAt
      tags
      defaultAddress { countryCodeV2 }
      firstOrder: orders(first: 1, sortKey: CREATED_AT) {
        nodes {
          createdAt
          customerJourney {
            source
            sourceType
            sourceDescription
            referrerUrl
            landingPage
            utmParameters { source medium campaign term content }
          }
        }
      }
    }
  }
}`

const ordersPageQuery = `
query OrdersPage($first: Int!, $after: String, $query: String!) {
  orders(first: $first, after: $after, query: $query, sortKey: CREATED_AT) {
    pageInfo { hasNextPage endCursor }
    nodes {
      id
      createdAt
      customer {
        id
        displayName
        email
        numberOfOrders
        amountSpent { amount currencyCode }
        createdAt
        tags
        firstOrder: orders(first: 1, sortKey: CREATED_AT) {
          nodes { createdAt }
        }
      }
    }
  }
}`

// Client implements API over the platform's GraphQL admin endpoint.
// Calls are sequential and uncached; a failed call aborts the whole request.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

// NewClient builds a client for one shop's admin API.
func NewClient(shopDomain, accessToken, apiVersion string, timeout time.Duration) *Client {
	return &Client{
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, apiVersion),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// execute posts one GraphQL document and decodes the data envelope into out.
// A non-empty errors array surfaces as an error with no partial result.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("commerce: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("commerce: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Commerce-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commerce: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("commerce: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("commerce: unexpected status %d", resp.StatusCode)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("commerce: failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("commerce: upstream query error: %s", envelope.Errors[0].Message)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("commerce: failed to decode data: %w", err)
	}
	return nil
}

// customerNode mirrors the wire shape where the first order arrives as a
// one-element connection under the firstOrder alias.
type customerNode struct {
	Customer
	FirstOrderConn struct {
		Nodes []FirstOrder `json:"nodes"`
	} `json:"firstOrder"`
}

func (n customerNode) toCustomer() Customer {
	c := n.Customer
	if len(n.FirstOrderConn.Nodes) > 0 {
		first := n.FirstOrderConn.Nodes[0]
		c.FirstOrder = &first
	}
	return c
}

func (c *Client) CustomersPage(ctx context.Context, cursor string, pageSize int) (CustomerPage, error) {
	variables := map[string]any{"first": pageSize}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Customers struct {
			PageInfo PageInfo       `json:"pageInfo"`
			Nodes    []customerNode `json:"nodes"`
		} `json:"customers"`
	}
	if err := c.execute(ctx, customersPageQuery, variables, &data); err != nil {
		return CustomerPage{}, err
	}

	page := CustomerPage{PageInfo: data.Customers.PageInfo}
	page.Customers = make([]Customer, 0, len(data.Customers.Nodes))
	for _, node := range data.Customers.Nodes {
		page.Customers = append(page.Customers, node.toCustomer())
	}
	return page, nil
}

func (c *Client) SearchCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	variables := map[string]any{
		"query": fmt.Sprintf("email:%s", strings.TrimSpace(email)),
	}

	var data struct {
		Customers struct {
			Nodes []customerNode `json:"nodes"`
		} `json:"customers"`
	}
	if err := c.execute(ctx, customerByEmailQuery, variables, &data); err != nil {
		return nil, err
	}

	if len(data.Customers.Nodes) == 0 {
		return nil, nil
	}
	customer := data.Customers.Nodes[0].toCustomer()
	return &customer, nil
}

func (c *Client) OrdersPage(ctx context.Context, cursor string, pageSize int, window daterange.Range) (OrderPage, error) {
	variables := map[string]any{
		"first": pageSize,
		"query": fmt.Sprintf("created_at:>='%s' created_at:<='%s'",
			window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339)),
	}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Orders struct {
			PageInfo PageInfo `json:"pageInfo"`
			Nodes    []struct {
				ID        string        `json:"id"`
				CreatedAt string        `json:"createdAt"`
				Customer  *customerNode `json:"customer"`
			} `json:"nodes"`
		} `json:"orders"`
	}
	if err := c.execute(ctx, ordersPageQuery, variables, &data); err != nil {
		return OrderPage{}, err
	}

	page := OrderPage{PageInfo: data.Orders.PageInfo}
	page.Orders = make([]Order, 0, len(data.Orders.Nodes))
	for _, node := range data.Orders.Nodes {
		order := Order{ID: node.ID, CreatedAt: node.CreatedAt}
		if node.Customer != nil {
			customer := node.Customer.toCustomer()
			order.Customer = &customer
		}
		page.Orders = append(page.Orders, order)
	}
	return page, nil
}
