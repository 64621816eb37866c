package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

// Per-marketplace path patterns that identify an individual product detail
// page rather than a listing or search-results page.
var productPatterns = map[string][]*regexp.Regexp{
	"amazon.com": {
		regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`),
		regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`),
		regexp.MustCompile(`(?i)/gp/aw/d/([A-Z0-9]{10})`),
		regexp.MustCompile(`(?i)/gp/offer-listing/([A-Z0-9]{10})`),
	},
	"walmart.com": {
		regexp.MustCompile(`(?i)/ip/`),
		regexp.MustCompile(`(?i)/checkout/`),
	},
	"target.com": {
		regexp.MustCompile(`(?i)/p/`),
		regexp.MustCompile(`(?i)/-/A-\d+`),
	},
}

// MatchedAllowedDomain returns the allowlist entry a URL's host belongs to.
// A host matches by exact equality or as a proper subdomain ("www.amazon.com"
// matches "amazon.com"); substring tricks like "amazon.com.evil.tld" do not.
func MatchedAllowedDomain(rawURL string, allowed []string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	for _, domain := range allowed {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return domain, true
		}
	}
	return "", false
}

// IsAllowedDomain reports whether a URL's host is on the allowlist.
func IsAllowedDomain(rawURL string, allowed []string) bool {
	_, ok := MatchedAllowedDomain(rawURL, allowed)
	return ok
}

// IsProductPage reports whether a URL looks like an individual product
// detail page on its marketplace. URLs off the allowlist are never product
// pages; allowed domains without a known pattern set yield false, which the
// retriever treats as fallback-pool material rather than a rejection.
func IsProductPage(rawURL string, allowed []string) bool {
	domain, ok := MatchedAllowedDomain(rawURL, allowed)
	if !ok {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.Path
	for _, pat := range productPatterns[domain] {
		if pat.MatchString(path) {
			return true
		}
	}
	return false
}

// ExtractItemCode pulls the marketplace item code (the Amazon ASIN) out of a
// product URL. Only Amazon codes are extracted: the authoritative price
// lookup collaborator resolves ASINs, and the other marketplaces have no
// equivalent lookup wired.
func ExtractItemCode(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	for _, pat := range productPatterns["amazon.com"] {
		if m := pat.FindStringSubmatch(u.Path); m != nil && len(m) > 1 {
			return strings.ToUpper(m[1]), true
		}
	}
	return "", false
}

// IdentityKey canonicalizes a URL for deduplication: scheme, host, and path
// with query and fragment stripped. Unparsable input is returned trimmed so
// the key is still usable and stable.
func IdentityKey(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + strings.ToLower(u.Host) + u.Path
}
