package agent

import (
	"context"
	"errors"
	"testing"
)

func TestRouteParsesClassification(t *testing.T) {
	provider := &fakeProvider{response: `{"type": "out_of_scope", "safety_flags": []}`}
	st := NewConversationState("write me a python script")
	NewRouter(provider).Route(context.Background(), st)

	if st.Intent.Type != IntentOutOfScope {
		t.Fatalf("intent = %s, want out_of_scope", st.Intent.Type)
	}
}

func TestRouteToleratesMarkdownFences(t *testing.T) {
	provider := &fakeProvider{response: "```json\n{\"type\": \"product_query\", \"safety_flags\": [\"pii\"]}\n```"}
	st := NewConversationState("find my usual shampoo")
	NewRouter(provider).Route(context.Background(), st)

	if st.Intent.Type != IntentProductQuery {
		t.Fatalf("intent = %s, want product_query", st.Intent.Type)
	}
	if len(st.Intent.SafetyFlags) != 1 || st.Intent.SafetyFlags[0] != "pii" {
		t.Fatalf("safety flags = %v, want [pii]", st.Intent.SafetyFlags)
	}
}

func TestRouteFailsOpenOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model unavailable")}
	st := NewConversationState("eco cleaner")
	NewRouter(provider).Route(context.Background(), st)

	if st.Intent.Type != IntentProductQuery {
		t.Fatalf("intent = %s, want fail-open product_query", st.Intent.Type)
	}
}

func TestRouteFailsOpenOnGarbageOutput(t *testing.T) {
	for _, raw := range []string{"sure, happy to help!", `{"type": "banana"}`, `{"type"`} {
		provider := &fakeProvider{response: raw}
		st := NewConversationState("eco cleaner")
		NewRouter(provider).Route(context.Background(), st)
		if st.Intent.Type != IntentProductQuery {
			t.Fatalf("output %q: intent = %s, want product_query", raw, st.Intent.Type)
		}
	}
}

func TestRouteEmptyQueryIsOutOfScope(t *testing.T) {
	provider := &fakeProvider{response: `{"type": "product_query"}`}
	st := NewConversationState("   ")
	NewRouter(provider).Route(context.Background(), st)

	if st.Intent.Type != IntentOutOfScope {
		t.Fatalf("intent = %s, want out_of_scope", st.Intent.Type)
	}
	if provider.calls.Load() != 0 {
		t.Fatalf("classifier called %d times for blank query", provider.calls.Load())
	}
}

func TestRouteWithoutProviderFailsOpen(t *testing.T) {
	st := NewConversationState("eco cleaner")
	NewRouter(nil).Route(context.Background(), st)
	if st.Intent.Type != IntentProductQuery {
		t.Fatalf("intent = %s, want product_query", st.Intent.Type)
	}
}
