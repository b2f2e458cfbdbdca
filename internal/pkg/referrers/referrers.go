// Package referrers maps referrer hostnames to display names for the
// channels that commonly drive storefront traffic.
package referrers

import "strings"

var knownReferrers = map[string]string{
	// Search engines
	"google.com":     "Google",
	"google.co.uk":   "Google",
	"google.de":      "Google",
	"google.fr":      "Google",
	"google.ca":      "Google",
	"google.com.au":  "Google",
	"bing.com":       "Bing",
	"duckduckgo.com": "DuckDuckGo",
	"yahoo.com":      "Yahoo",
	"ecosia.org":     "Ecosia",

	// Social
	"x.com":           "X/Twitter",
	"twitter.com":     "X/Twitter",
	"t.co":            "X/Twitter",
	"facebook.com":    "Facebook",
	"fb.com":          "Facebook",
	"l.facebook.com":  "Facebook",
	"lm.facebook.com": "Facebook",
	"instagram.com":   "Instagram",
	"l.instagram.com": "Instagram",
	"tiktok.com":      "TikTok",
	"pinterest.com":   "Pinterest",
	"reddit.com":      "Reddit",
	"youtube.com":     "YouTube",
	"youtu.be":        "YouTube",
	"linkedin.com":    "LinkedIn",
	"snapchat.com":    "Snapchat",
	"whatsapp.com":    "WhatsApp",
	"t.me":            "Telegram",

	// Email providers, for newsletter clicks
	"mail.google.com":    "Gmail",
	"outlook.live.com":   "Outlook",
	"outlook.office.com": "Outlook",
	"mail.yahoo.com":     "Yahoo Mail",
	"mail.proton.me":     "Proton Mail",

	// Marketplaces and shopping surfaces
	"amazon.com":          "Amazon",
	"etsy.com":            "Etsy",
	"ebay.com":            "eBay",
	"shop.app":            "Shop App",
	"shopping.google.com": "Google Shopping",

	// Link shorteners
	"bit.ly":      "Bitly",
	"tinyurl.com": "TinyURL",
	"ow.ly":       "Hootsuite",
}

// FriendlyName maps a referrer hostname to a display name. Unlisted
// hostnames come back with mobile/www prefixes stripped and the first
// letter capitalized.
func FriendlyName(hostname string) string {
	host := normalize(hostname)
	if host == "" {
		return ""
	}

	if name, ok := knownReferrers[host]; ok {
		return name
	}

	// Subdomains inherit the parent domain's name.
	for domain, name := range knownReferrers {
		if strings.HasSuffix(host, "."+domain) {
			return name
		}
	}

	return strings.ToUpper(host[:1]) + host[1:]
}

func normalize(hostname string) string {
	host := strings.ToLower(strings.TrimSpace(hostname))
	for _, prefix := range []string{"www.", "m."} {
		if trimmed := strings.TrimPrefix(host, prefix); trimmed != host {
			if _, ok := knownReferrers[host]; !ok {
				host = trimmed
			}
			break
		}
	}
	return host
}
