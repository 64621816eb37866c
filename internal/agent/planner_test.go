package agent

import (
	"reflect"
	"testing"
)

func planQuery(q string) *ConversationState {
	st := NewConversationState(q)
	NewPlanner().Plan(st)
	return st
}

func TestPlanExtractsBudget(t *testing.T) {
	cases := []struct {
		query string
		want  float64
	}{
		{"eco stainless steel cleaner under $15", 15},
		{"headphones below 50", 50},
		{"blender for less than $89.99", 89.99},
		{"vacuum up to $200", 200},
		{"toaster, $30 or less", 30},
	}
	for _, c := range cases {
		st := planQuery(c.query)
		if !st.Constraints.HasMaxPrice {
			t.Fatalf("no budget extracted from %q", c.query)
		}
		if st.Constraints.MaxPrice != c.want {
			t.Fatalf("budget for %q = %v, want %v", c.query, st.Constraints.MaxPrice, c.want)
		}
	}
}

func TestPlanIgnoresAbsurdBudget(t *testing.T) {
	st := planQuery("yacht under $50000")
	if st.Constraints.HasMaxPrice {
		t.Fatalf("budget %v accepted, want none", st.Constraints.MaxPrice)
	}
}

func TestPlanNoBudgetWithoutPhrase(t *testing.T) {
	st := planQuery("stainless steel cleaner")
	if st.Constraints.HasMaxPrice {
		t.Fatalf("unexpected budget %v", st.Constraints.MaxPrice)
	}
}

func TestPlanKeywordsDropStopwordsAndNumbers(t *testing.T) {
	st := planQuery("please find me an eco stainless steel cleaner under $15")
	want := []string{"eco", "stainless", "steel", "cleaner"}
	if !reflect.DeepEqual(st.Constraints.Keywords, want) {
		t.Fatalf("keywords = %v, want %v", st.Constraints.Keywords, want)
	}
}

func TestPlanKeywordsDeduplicatePreservingOrder(t *testing.T) {
	st := planQuery("steel cleaner steel sponge cleaner")
	want := []string{"steel", "cleaner", "sponge"}
	if !reflect.DeepEqual(st.Constraints.Keywords, want) {
		t.Fatalf("keywords = %v, want %v", st.Constraints.Keywords, want)
	}
}

func TestPlanCategory(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"eco stainless steel cleaner under $15", "cleaning"},
		{"wireless headphones", "electronics"},
		{"cast iron pan", "kitchen"},
		{"mystery gadget", ""},
	}
	for _, c := range cases {
		st := planQuery(c.query)
		if st.Constraints.Category != c.want {
			t.Fatalf("category for %q = %q, want %q", c.query, st.Constraints.Category, c.want)
		}
	}
}

func TestPlanStrategy(t *testing.T) {
	cases := []struct {
		query string
		want  Strategy
	}{
		{"eco stainless steel cleaner under $15", StrategyHybrid},
		{"what is the current price of this blender", StrategyWebOnly},
		{"is the toaster in stock", StrategyWebOnly},
		{"show me some, please", StrategyCatalogOnly},
	}
	for _, c := range cases {
		st := planQuery(c.query)
		if st.Strategy != c.want {
			t.Fatalf("strategy for %q = %s, want %s", c.query, st.Strategy, c.want)
		}
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	a := planQuery("eco stainless steel cleaner under $15")
	b := planQuery("eco stainless steel cleaner under $15")
	if !reflect.DeepEqual(a.Constraints, b.Constraints) || a.Strategy != b.Strategy {
		t.Fatalf("same query produced different plans: %+v vs %+v", a.Constraints, b.Constraints)
	}
}
