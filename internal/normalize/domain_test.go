package normalize

import "testing"

var testAllowlist = []string{"amazon.com", "walmart.com", "target.com"}

func TestMatchedAllowedDomainExactAndSubdomain(t *testing.T) {
	domain, ok := MatchedAllowedDomain("https://amazon.com/dp/B00ABC1234", testAllowlist)
	if !ok || domain != "amazon.com" {
		t.Fatalf("expected amazon.com, got %q (ok=%v)", domain, ok)
	}

	domain, ok = MatchedAllowedDomain("https://www.walmart.com/ip/cleaner/123", testAllowlist)
	if !ok || domain != "walmart.com" {
		t.Fatalf("expected walmart.com, got %q (ok=%v)", domain, ok)
	}
}

func TestMatchedAllowedDomainRejectsLookalikes(t *testing.T) {
	adversarial := []string{
		"https://amazon.com.evil.tld/dp/B00ABC1234",
		"https://notamazon.com/dp/B00ABC1234",
		"https://evil.tld/amazon.com/dp/B00ABC1234",
		"https://fakeamazon.com/deals",
	}
	for _, u := range adversarial {
		if IsAllowedDomain(u, testAllowlist) {
			t.Fatalf("adversarial host passed allowlist: %s", u)
		}
	}
}

func TestMatchedAllowedDomainUnparsable(t *testing.T) {
	if IsAllowedDomain("://not a url", testAllowlist) {
		t.Fatalf("expected unparsable URL to be rejected")
	}
	if IsAllowedDomain("", testAllowlist) {
		t.Fatalf("expected empty URL to be rejected")
	}
}

func TestIsProductPageAmazon(t *testing.T) {
	productPages := []string{
		"https://www.amazon.com/dp/B08XYZ1234",
		"https://amazon.com/gp/product/B00ABC1234?ref=nav",
		"https://www.amazon.com/gp/aw/d/B00ABC1234",
		"https://www.amazon.com/gp/offer-listing/B00ABC1234",
	}
	for _, u := range productPages {
		if !IsProductPage(u, testAllowlist) {
			t.Fatalf("expected product page: %s", u)
		}
	}

	if IsProductPage("https://www.amazon.com/s?k=steel+cleaner", testAllowlist) {
		t.Fatalf("search results page should not be a product page")
	}
}

func TestIsProductPageWalmartAndTarget(t *testing.T) {
	if !IsProductPage("https://www.walmart.com/ip/Steel-Cleaner/5034271", testAllowlist) {
		t.Fatalf("expected walmart /ip/ to be a product page")
	}
	if !IsProductPage("https://www.target.com/p/steel-cleaner/-/A-80912345", testAllowlist) {
		t.Fatalf("expected target /p/ to be a product page")
	}
	if IsProductPage("https://www.target.com/c/cleaning-supplies", testAllowlist) {
		t.Fatalf("category page should not be a product page")
	}
}

func TestIsProductPageOffAllowlist(t *testing.T) {
	if IsProductPage("https://ebay.com/itm/1234567890", testAllowlist) {
		t.Fatalf("off-allowlist URL should never be a product page")
	}
}

func TestExtractItemCode(t *testing.T) {
	code, ok := ExtractItemCode("https://www.amazon.com/dp/b08xyz1234?tag=x")
	if !ok || code != "B08XYZ1234" {
		t.Fatalf("expected B08XYZ1234, got %q (ok=%v)", code, ok)
	}

	if _, ok := ExtractItemCode("https://www.walmart.com/ip/Steel-Cleaner/5034271"); ok {
		t.Fatalf("walmart URLs should not yield an item code")
	}
	if _, ok := ExtractItemCode("https://www.amazon.com/s?k=cleaner"); ok {
		t.Fatalf("search page should not yield an item code")
	}
}

func TestIdentityKeyStripsQueryAndFragment(t *testing.T) {
	key := IdentityKey("https://WWW.Amazon.com/dp/B08XYZ1234?tag=aff&ref=sr#reviews")
	if key != "https://www.amazon.com/dp/B08XYZ1234" {
		t.Fatalf("unexpected identity key: %q", key)
	}
}

func TestIdentityKeyStableForEquivalentURLs(t *testing.T) {
	a := IdentityKey("https://www.target.com/p/cleaner/-/A-80912345?preselect=1")
	b := IdentityKey("https://www.target.com/p/cleaner/-/A-80912345")
	if a != b {
		t.Fatalf("equivalent URLs produced different keys: %q vs %q", a, b)
	}
}
