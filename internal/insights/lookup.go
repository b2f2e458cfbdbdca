package insights

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shoplens/internal/commerce"
	"shoplens/internal/pkg/referrers"
)

// UnknownChannel is the placeholder when no attribution data resolves.
const UnknownChannel = "Unknown"

// LookupResult is the single-customer view with referral attribution.
type LookupResult struct {
	Customer        commerce.Customer `json:"customer"`
	FirstOrderDate  string            `json:"first_order_date"`
	ReferralChannel string            `json:"referral_channel"`
	SourceLabel     string            `json:"source_label"`
	Location        string            `json:"location"`
}

// LookupCustomer resolves a free-text email to at most one customer via an
// exact-match query and derives the referral channel of their first order.
// Returns nil when no customer matches.
func LookupCustomer(ctx context.Context, api commerce.API, email string) (*LookupResult, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, nil
	}

	customer, err := api.SearchCustomerByEmail(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("insights: customer lookup failed: %w", err)
	}
	if customer == nil {
		return nil, nil
	}

	var referral *commerce.ReferralVisit
	if customer.FirstOrder != nil {
		referral = customer.FirstOrder.Referral
	}

	return &LookupResult{
		Customer:        *customer,
		FirstOrderDate:  isoDay(customer.FirstOrderDate()),
		ReferralChannel: ReferralChannel(referral),
		SourceLabel:     sourceLabel(referral),
		Location:        locationName(customer.DefaultAddress),
	}, nil
}

// ReferralChannel formats the attribution snapshot by priority: UTM fields,
// then named source with optional description, then referrer hostname
// (raw URL when parsing fails), then Unknown.
func ReferralChannel(visit *commerce.ReferralVisit) string {
	if visit == nil {
		return UnknownChannel
	}

	if visit.UTM.HasAny() {
		return formatUTMChannel(visit.UTM)
	}

	if visit.Source != "" {
		if visit.SourceDescription != "" {
			return fmt.Sprintf("%s (%s)", visit.Source, visit.SourceDescription)
		}
		return visit.Source
	}

	if visit.ReferrerURL != "" {
		if host := referrerHostname(visit.ReferrerURL); host != "" {
			return host
		}
		return visit.ReferrerURL
	}

	return UnknownChannel
}

// formatUTMChannel joins the non-empty UTM fields in fixed order.
func formatUTMChannel(utm commerce.UTMParameters) string {
	pairs := []struct {
		key   string
		value string
	}{
		{"source", utm.Source},
		{"medium", utm.Medium},
		{"campaign", utm.Campaign},
		{"term", utm.Term},
		{"content", utm.Content},
	}

	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair.value != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", pair.key, pair.value))
		}
	}
	return fmt.Sprintf("UTM (%s)", strings.Join(parts, ", "))
}

func referrerHostname(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// sourceLabel is a display-only friendly name for referrer-derived channels.
func sourceLabel(visit *commerce.ReferralVisit) string {
	if visit == nil || visit.ReferrerURL == "" {
		return ""
	}
	host := referrerHostname(visit.ReferrerURL)
	if host == "" {
		return ""
	}
	return referrers.FriendlyName(host)
}

// locationName expands the default-address country code to its common name,
// falling back to the uppercased code for unrecognized values.
func locationName(address *commerce.Address) string {
	if address == nil || address.CountryCode == "" {
		return ""
	}

	countries := gountries.New()
	country, err := countries.FindCountryByAlpha(address.CountryCode)
	if err != nil {
		caser := cases.Upper(language.AmericanEnglish)
		return caser.String(address.CountryCode)
	}
	return country.Name.Common
}

// isoDay truncates an ISO timestamp to its date component.
func isoDay(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}
