package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kayz/shopmate/internal/logger"
)

const routerSystemPrompt = `You classify queries for a shopping assistant that recommends physical products.

Respond with a single JSON object and nothing else:
{"type": "<product_query|out_of_scope|clarification>", "safety_flags": ["<flag>", ...]}

Rules:
- "product_query": the user wants to find, compare, or buy a physical product.
- "out_of_scope": anything else (coding help, medical/legal advice, news, chit-chat).
- "clarification": the user is answering or refining a previous product request.
- safety_flags: include "unsafe_product" for weapons, drugs or other restricted goods,
  "pii" if the query contains personal data. Empty list otherwise.`

// Router classifies the incoming query into an Intent. Classification
// failure never blocks the request: the router fails open to product_query
// so a flaky model cannot take the assistant down.
type Router struct {
	provider Provider
}

func NewRouter(provider Provider) *Router {
	return &Router{provider: provider}
}

// Route classifies state.Query and records the intent on the state.
func (r *Router) Route(ctx context.Context, st *ConversationState) {
	st.Intent = r.classify(ctx, st)
	st.AppendLog("router", "intent=%s safety_flags=%v", st.Intent.Type, st.Intent.SafetyFlags)
}

func (r *Router) classify(ctx context.Context, st *ConversationState) *Intent {
	if strings.TrimSpace(st.Query) == "" {
		return &Intent{Type: IntentOutOfScope}
	}
	if r.provider == nil {
		st.AppendLog("router", "no classifier configured, failing open to product_query")
		return &Intent{Type: IntentProductQuery}
	}

	raw, err := r.provider.Complete(ctx, routerSystemPrompt, st.Query)
	if err != nil {
		logger.Warn("router classification failed, failing open: %v", err)
		st.AppendLog("router", "classification unavailable (%v), failing open to product_query", err)
		return &Intent{Type: IntentProductQuery}
	}

	intent, ok := parseIntent(raw)
	if !ok {
		st.AppendLog("router", "unparsable classification, failing open to product_query")
		return &Intent{Type: IntentProductQuery}
	}
	return intent
}

// parseIntent extracts the classification object from the model output,
// tolerating markdown fences and surrounding prose.
func parseIntent(raw string) (*Intent, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var parsed struct {
		Type        string   `json:"type"`
		SafetyFlags []string `json:"safety_flags"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, false
	}

	switch IntentType(parsed.Type) {
	case IntentProductQuery, IntentOutOfScope, IntentClarification:
		return &Intent{Type: IntentType(parsed.Type), SafetyFlags: parsed.SafetyFlags}, true
	default:
		return nil, false
	}
}
