// Package commerce defines the cursor-paginated customer/order interface the
// aggregation pipelines consume, plus the GraphQL HTTP client that implements
// it against the storefront platform's admin API.
package commerce

import (
	"strconv"
	"strings"
	"time"
)

// Money is a currency-tagged decimal amount as returned by the platform.
// The amount travels as a string; Value coerces it defensively.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Value returns the numeric amount, treating a missing or malformed
// amount as zero rather than an error.
func (m Money) Value() float64 {
	if m.Amount == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m.Amount), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// UTMParameters are the campaign-tracking fields attached to a referring link.
type UTMParameters struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Term     string `json:"term"`
	Content  string `json:"content"`
}

// HasAny reports whether the source or medium field carries a value.
func (u UTMParameters) HasAny() bool {
	return u.Source != "" || u.Medium != ""
}

// ReferralVisit is the attribution snapshot attached to a customer's first order.
type ReferralVisit struct {
	Source            string        `json:"source"`
	SourceType        string        `json:"sourceType"`
	SourceDescription string        `json:"sourceDescription"`
	ReferrerURL       string        `json:"referrerUrl"`
	LandingPage       string        `json:"landingPage"`
	UTM               UTMParameters `json:"utmParameters"`
}

// FirstOrder is a customer's earliest order with its referral snapshot.
type FirstOrder struct {
	CreatedAt string         `json:"createdAt"`
	Referral  *ReferralVisit `json:"customerJourney"`
}

// Address carries the subset of the default address the admin views display.
type Address struct {
	CountryCode string `json:"countryCodeV2"`
}

// Customer is a storefront customer record. Timestamps stay in their ISO wire
// form; accessors parse on demand.
type Customer struct {
	ID             string      `json:"id"`
	DisplayName    string      `json:"displayName"`
	Email          string      `json:"email"`
	NumberOfOrders string      `json:"numberOfOrders"`
	AmountSpent    Money       `json:"amountSpent"`
	CreatedAt      string      `json:"createdAt"`
	Tags           []string    `json:"tags"`
	FirstOrder     *FirstOrder `json:"firstOrder"`
	DefaultAddress *Address    `json:"defaultAddress"`
}

// OrdersCount coerces the lifetime order count, missing or malformed values
// counting as zero.
func (c Customer) OrdersCount() int {
	if c.NumberOfOrders == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.NumberOfOrders))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SpentValue is the customer's lifetime amount spent, coerced to a number.
func (c Customer) SpentValue() float64 {
	return c.AmountSpent.Value()
}

// CreatedAtTime parses the creation timestamp. The second return value is
// false when the field is absent or unparseable.
func (c Customer) CreatedAtTime() (time.Time, bool) {
	return parseISOTime(c.CreatedAt)
}

// FirstOrderDate returns the ISO timestamp of the customer's first order,
// empty when unresolvable.
func (c Customer) FirstOrderDate() string {
	if c.FirstOrder == nil {
		return ""
	}
	return c.FirstOrder.CreatedAt
}

// FirstOrderTime parses the first-order timestamp when present.
func (c Customer) FirstOrderTime() (time.Time, bool) {
	return parseISOTime(c.FirstOrderDate())
}

// NormalizedTags returns the customer's tags lowercased and trimmed.
func (c Customer) NormalizedTags() []string {
	if len(c.Tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Order is a storefront order; customerless orders carry a nil Customer.
type Order struct {
	ID        string    `json:"id"`
	CreatedAt string    `json:"createdAt"`
	Customer  *Customer `json:"customer"`
}

// CreatedAtTime parses the order creation timestamp.
func (o Order) CreatedAtTime() (time.Time, bool) {
	return parseISOTime(o.CreatedAt)
}

// PageInfo is the cursor-pagination envelope: an opaque continuation token
// plus a has-more flag.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// CustomerPage is one page of a customer walk.
type CustomerPage struct {
	Customers []Customer
	PageInfo  PageInfo
}

// OrderPage is one page of an order-window walk.
type OrderPage struct {
	Orders   []Order
	PageInfo PageInfo
}

func parseISOTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
