// Package normalize holds the pure text/URL helpers used by the retriever:
// price extraction from free text, the marketplace domain allowlist,
// product-page detection, and item-code extraction. Every function is total:
// unparsable input yields a zero value, never an error.
package normalize

import (
	"regexp"
	"strconv"
)

// Prices outside this open interval are treated as spurious numbers
// (shipping weights, model numbers, review counts).
const (
	minPrice = 0
	maxPrice = 10000
)

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)\bUSD\s*(\d+(?:\.\d{1,2})?)\b`),
	regexp.MustCompile(`(?i)\b(\d+(?:\.\d{1,2})?)\s*USD\b`),
	regexp.MustCompile(`(?i)\b(\d+(?:\.\d{1,2})?)\s*dollars\b`),
}

// ExtractPrice pulls a plausible USD price out of free text. It recognizes
// the forms "$12.99", "USD 12.99", "12.99 USD" and "12 dollars". The second
// return value is false when no in-bounds price is present.
func ExtractPrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	for _, pat := range pricePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if val > minPrice && val < maxPrice {
			return val, true
		}
	}
	return 0, false
}
