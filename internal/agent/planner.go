package agent

import (
	"regexp"
	"strconv"
	"strings"
)

// Planner derives structured constraints from the query text and picks the
// search strategy. It is a pure transformation over the state: no network,
// no model calls, same output for the same query every time.
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunder\s+\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)\bbelow\s+\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)\bless\s+than\s+\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)\b(?:up\s+to|max(?:imum)?)\s+\$?\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(?i)\$\s*(\d+(?:\.\d{1,2})?)\s+(?:or\s+less|max|budget)`),
}

var categoryKeywords = map[string]string{
	"cleaner":    "cleaning",
	"cleaning":   "cleaning",
	"detergent":  "cleaning",
	"soap":       "cleaning",
	"wipes":      "cleaning",
	"sponge":     "cleaning",
	"kitchen":    "kitchen",
	"cookware":   "kitchen",
	"pan":        "kitchen",
	"pot":        "kitchen",
	"knife":      "kitchen",
	"headphones": "electronics",
	"earbuds":    "electronics",
	"speaker":    "electronics",
	"charger":    "electronics",
	"cable":      "electronics",
	"shampoo":    "personal_care",
	"lotion":     "personal_care",
	"toothpaste": "personal_care",
	"vacuum":     "appliances",
	"blender":    "appliances",
	"toaster":    "appliances",
}

var plannerStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "any": {}, "are": {}, "buy": {}, "can": {},
	"do": {}, "find": {}, "for": {}, "get": {}, "give": {}, "i": {}, "in": {},
	"is": {}, "it": {}, "me": {}, "my": {}, "need": {}, "of": {}, "on": {},
	"or": {}, "please": {}, "recommend": {}, "show": {}, "some": {},
	"something": {}, "suggest": {}, "that": {}, "the": {}, "to": {},
	"want": {}, "what": {}, "which": {}, "with": {}, "you": {},
	// budget-phrase words, already captured as the price constraint
	"under": {}, "below": {}, "less": {}, "than": {}, "max": {},
	"maximum": {}, "budget": {}, "dollars": {}, "usd": {}, "bucks": {},
}

// Phrases that signal the user wants live marketplace data rather than the
// locally indexed catalog.
var webOnlyPhrases = []string{
	"current price",
	"price right now",
	"price today",
	"in stock",
	"latest price",
	"live price",
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+(?:'[a-z]+)?`)

// Plan derives Constraints and the search strategy from the query.
func (p *Planner) Plan(st *ConversationState) {
	constraints := &Constraints{}

	if price, ok := extractBudget(st.Query); ok {
		constraints.MaxPrice = price
		constraints.HasMaxPrice = true
	}

	constraints.Keywords = extractKeywords(st.Query)

	for _, kw := range constraints.Keywords {
		if cat, ok := categoryKeywords[kw]; ok {
			constraints.Category = cat
			break
		}
	}

	st.Constraints = constraints
	st.Strategy = chooseStrategy(st.Query, constraints)

	st.AppendLog("planner", "strategy=%s keywords=%v category=%q max_price=%s",
		st.Strategy, constraints.Keywords, constraints.Category, formatBudget(constraints))
}

func extractBudget(query string) (float64, bool) {
	for _, pat := range budgetPatterns {
		m := pat.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		val, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if val > 0 && val < 10000 {
			return val, true
		}
	}
	return 0, false
}

func extractKeywords(query string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(query), -1)

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := plannerStopwords[tok]; stop {
			continue
		}
		// bare numbers are budget noise, not retrieval signal
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

func chooseStrategy(query string, constraints *Constraints) Strategy {
	lower := strings.ToLower(query)
	for _, phrase := range webOnlyPhrases {
		if strings.Contains(lower, phrase) {
			return StrategyWebOnly
		}
	}
	if len(constraints.Keywords) == 0 {
		return StrategyCatalogOnly
	}
	return StrategyHybrid
}

func formatBudget(c *Constraints) string {
	if !c.HasMaxPrice {
		return "none"
	}
	return strconv.FormatFloat(c.MaxPrice, 'f', 2, 64)
}
