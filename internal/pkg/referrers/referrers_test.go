package referrers

import "testing"

func TestFriendlyName(t *testing.T) {
	tests := []struct {
		hostname string
		want     string
	}{
		{"google.com", "Google"},
		{"www.google.com", "Google"},
		{"m.facebook.com", "Facebook"},
		{"l.instagram.com", "Instagram"},
		{"news.tiktok.com", "TikTok"}, // subdomain of a known domain
		{"GOOGLE.COM", "Google"},
		{"mail.google.com", "Gmail"}, // exact entry wins over the google.com suffix
		{"shop.app", "Shop App"},
		{"example.com", "Example.com"},
		{"www.example.com", "Example.com"},
		{"", ""},
		{"  bing.com  ", "Bing"},
	}

	for _, tc := range tests {
		if got := FriendlyName(tc.hostname); got != tc.want {
			t.Errorf("FriendlyName(%q) = %q, want %q", tc.hostname, got, tc.want)
		}
	}
}
