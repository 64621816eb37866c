package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kayz/shopmate/internal/logger"
)

const answererSystemPrompt = `You are a friendly shopping assistant. Write a short, spoken-style answer
recommending products from the numbered list you are given, optionally
followed by one brief paragraph of explanation.

Rules:
- Reference products only by their bracketed number, e.g. "the GreenHome spray [1]".
- Never reference a number that is not in the list.
- Never invent products, prices, or availability.
- Mention prices when known and respect the user's budget if one is stated.`

// Answerer turns the reconciled results into the final answer plus a stable
// citation list. Citations are a 1:1 projection of the reconciled list in
// rank order; the answer text may only reference those indexes.
type Answerer struct {
	provider Provider
}

func NewAnswerer(provider Provider) *Answerer {
	return &Answerer{provider: provider}
}

var citationRefPattern = regexp.MustCompile(`\[(\d+)\]`)

// Answer fills state.FinalAnswer and state.Citations.
func (a *Answerer) Answer(ctx context.Context, st *ConversationState) {
	st.Citations = buildCitations(st.Reconciled)

	if len(st.Reconciled) == 0 {
		st.FinalAnswer = fmt.Sprintf(
			"I couldn't find any matching products for %q. Try different keywords or a higher budget.",
			st.Query)
		st.AppendLog("answerer", "no results, returning explicit empty answer")
		return
	}

	text, err := a.compose(ctx, st)
	if err != nil {
		logger.Warn("answer synthesis failed, using template fallback: %v", err)
		st.AppendLog("answerer", "synthesis unavailable (%v), using template answer", err)
		text = templateAnswer(st)
	}

	st.FinalAnswer = sanitizeCitationRefs(text, len(st.Citations))
	st.AppendLog("answerer", "answer ready with %d citations", len(st.Citations))
}

func (a *Answerer) compose(ctx context.Context, st *ConversationState) (string, error) {
	if a.provider == nil {
		return "", fmt.Errorf("no answer model configured")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "User query: %s\n", st.Query)
	if st.Constraints != nil {
		if st.Constraints.HasMaxPrice {
			fmt.Fprintf(&sb, "Budget ceiling: $%.2f\n", st.Constraints.MaxPrice)
		}
		if st.Constraints.Category != "" {
			fmt.Fprintf(&sb, "Category: %s\n", st.Constraints.Category)
		}
	}
	sb.WriteString("\nProducts:\n")
	for _, c := range st.Citations {
		fmt.Fprintf(&sb, "[%d] %s", c.Index, c.Title)
		if c.Price != nil {
			fmt.Fprintf(&sb, " — $%.2f", *c.Price)
		}
		rec := st.Reconciled[c.Index-1]
		fmt.Fprintf(&sb, " (source: %s)", rec.Source)
		if c.URL != "" {
			fmt.Fprintf(&sb, " %s", c.URL)
		}
		sb.WriteString("\n")
	}

	text, err := a.provider.Complete(ctx, answererSystemPrompt, sb.String())
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty answer from model")
	}
	return text, nil
}

// templateAnswer is the deterministic fallback when the model is
// unavailable: the user still gets the ranked results, never silence.
func templateAnswer(st *ConversationState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %d option", len(st.Citations))
	if len(st.Citations) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " for %q.", st.Query)

	limit := len(st.Citations)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		c := st.Citations[i]
		fmt.Fprintf(&sb, " %s", c.Title)
		if c.Price != nil {
			fmt.Fprintf(&sb, " at $%.2f", *c.Price)
		}
		fmt.Fprintf(&sb, " [%d].", c.Index)
	}
	return sb.String()
}

// buildCitations is the 1:1 rank-ordered projection of the reconciled list.
func buildCitations(results []ReconciledResult) []Citation {
	citations := make([]Citation, 0, len(results))
	for _, res := range results {
		c := Citation{
			Index: res.Rank + 1,
			Title: res.Title,
			URL:   res.URL,
		}
		if res.HasPrice {
			price := res.Price
			c.Price = &price
		}
		citations = append(citations, c)
	}
	return citations
}

// sanitizeCitationRefs strips inline references to citation indexes that do
// not exist, so the invariant "every referenced index is in the citation
// list" holds even when the model misbehaves.
func sanitizeCitationRefs(text string, citationCount int) string {
	return citationRefPattern.ReplaceAllStringFunc(text, func(ref string) string {
		idx, err := strconv.Atoi(strings.Trim(ref, "[]"))
		if err != nil || idx < 1 || idx > citationCount {
			return ""
		}
		return ref
	})
}
