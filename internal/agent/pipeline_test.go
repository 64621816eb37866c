package agent

import (
	"context"
	"testing"

	"github.com/kayz/shopmate/internal/catalog"
	"github.com/kayz/shopmate/internal/search"
)

func newTestPipeline(routerProv, answerProv Provider, cat *fakeCatalog, web *fakeWeb) *Pipeline {
	return NewPipeline(
		NewRouter(routerProv),
		NewPlanner(),
		NewRetriever(cat, web, nil, testRetrievalCfg()),
		NewAnswerer(answerProv),
	)
}

func TestRunEndToEnd(t *testing.T) {
	routerProv := &fakeProvider{response: `{"type": "product_query", "safety_flags": []}`}
	answerProv := &fakeProvider{response: "Go with the EcoShine cleaner [1] at $12.99, or the SteelBrite spray [2]."}
	cat := &fakeCatalog{hits: []catalog.Hit{
		{ID: "sku-1", Title: "EcoShine Steel Cleaner", URL: "https://www.amazon.com/dp/B0EXAMPLE1", Price: 12.99, HasPrice: true, Score: 0.9},
	}}
	web := &fakeWeb{results: []search.Result{
		{Title: "SteelBrite Spray", URL: "https://www.walmart.com/ip/steelbrite/123", Snippet: "Now $13.50", Score: 0.8, HasScore: true},
	}}

	p := newTestPipeline(routerProv, answerProv, cat, web)
	st := p.Run(context.Background(), "eco stainless steel cleaner under $15")

	if st.Err != "" {
		t.Fatalf("unexpected pipeline error: %s", st.Err)
	}
	if len(st.Reconciled) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(st.Reconciled), st.Reconciled)
	}
	for _, res := range st.Reconciled {
		if !res.HasPrice {
			t.Fatalf("result %q lost its price", res.Title)
		}
		if res.Price > st.Constraints.MaxPrice {
			t.Fatalf("result %q at $%.2f exceeds the $%.2f budget", res.Title, res.Price, st.Constraints.MaxPrice)
		}
	}
	if st.Reconciled[0].Title != "EcoShine Steel Cleaner" {
		t.Fatalf("top result = %q, want the higher-scored catalog item", st.Reconciled[0].Title)
	}
	if st.FinalAnswer == "" || len(st.Citations) != 2 {
		t.Fatalf("answer %q with %d citations", st.FinalAnswer, len(st.Citations))
	}
}

func TestRunOutOfScopeStopsAfterRouter(t *testing.T) {
	routerProv := &fakeProvider{response: `{"type": "out_of_scope", "safety_flags": []}`}
	answerProv := &fakeProvider{response: "should never run"}
	cat := &fakeCatalog{}
	web := &fakeWeb{}

	p := newTestPipeline(routerProv, answerProv, cat, web)
	st := p.Run(context.Background(), "write me a cover letter")

	if st.FinalAnswer != declinationAnswer {
		t.Fatalf("answer = %q, want the declination", st.FinalAnswer)
	}
	if len(st.Reconciled) != 0 {
		t.Fatalf("got %d results for an out-of-scope query", len(st.Reconciled))
	}
	if st.Constraints != nil {
		t.Fatalf("planner ran for an out-of-scope query")
	}
	if cat.calls.Load() != 0 || web.calls.Load() != 0 {
		t.Fatalf("sources queried for an out-of-scope query (catalog=%d web=%d)", cat.calls.Load(), web.calls.Load())
	}
	if answerProv.calls.Load() != 0 {
		t.Fatalf("answer model called for an out-of-scope query")
	}
}

func TestRunClarificationContinuesPipeline(t *testing.T) {
	routerProv := &fakeProvider{response: `{"type": "clarification", "safety_flags": []}`}
	answerProv := &fakeProvider{response: "Then the EcoShine [1] fits."}
	cat := &fakeCatalog{hits: []catalog.Hit{
		{ID: "sku-1", Title: "EcoShine Steel Cleaner", Price: 12.99, HasPrice: true, Score: 0.9},
	}}
	web := &fakeWeb{}

	p := newTestPipeline(routerProv, answerProv, cat, web)
	st := p.Run(context.Background(), "the cheaper one, stainless steel")

	if len(st.Reconciled) != 1 {
		t.Fatalf("clarification did not reach retrieval: %+v", st.Reconciled)
	}
}

func TestRunRecoversFromPanic(t *testing.T) {
	routerProv := &fakeProvider{response: `{"type": "product_query", "safety_flags": []}`}
	answerProv := &fakeProvider{panics: true}
	cat := &fakeCatalog{hits: []catalog.Hit{
		{ID: "sku-1", Title: "EcoShine Steel Cleaner", Price: 12.99, HasPrice: true, Score: 0.9},
	}}

	p := newTestPipeline(routerProv, answerProv, cat, &fakeWeb{})
	st := p.Run(context.Background(), "eco cleaner")

	if st.Err == "" {
		t.Fatalf("panic not converted into a pipeline error")
	}
	if st.FinalAnswer != apologyAnswer {
		t.Fatalf("answer = %q, want the apology", st.FinalAnswer)
	}
	if len(st.Reconciled) != 0 || len(st.Citations) != 0 {
		t.Fatalf("failed run kept results: %d results, %d citations", len(st.Reconciled), len(st.Citations))
	}
}

func TestRunCancelledContext(t *testing.T) {
	routerProv := &fakeProvider{response: `{"type": "product_query", "safety_flags": []}`}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(routerProv, &fakeProvider{response: "x"}, &fakeCatalog{}, &fakeWeb{})
	st := p.Run(ctx, "eco cleaner")

	if st.Err == "" {
		t.Fatalf("cancelled run reported no error")
	}
	if len(st.Reconciled) != 0 {
		t.Fatalf("cancelled run returned %d results", len(st.Reconciled))
	}
}

func TestBuildResponseErrorImpliesEmptyResults(t *testing.T) {
	st := NewConversationState("eco cleaner")
	st.Reconciled = reconciledFixture()
	st.Fail(apologyAnswer, "internal pipeline error")

	resp := BuildResponse(st)
	if resp.Error == nil || *resp.Error != "internal pipeline error" {
		t.Fatalf("error = %v, want internal pipeline error", resp.Error)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("error response carries %d results", len(resp.Results))
	}
	if resp.Query != "eco cleaner" {
		t.Fatalf("query = %q", resp.Query)
	}
}

func TestBuildResponseProjectsResults(t *testing.T) {
	st := NewConversationState("eco cleaner")
	st.Reconciled = reconciledFixture()
	st.FinalAnswer = "Go with [1]."
	st.Citations = buildCitations(st.Reconciled)

	resp := BuildResponse(st)
	if resp.Error != nil {
		t.Fatalf("unexpected error %q", *resp.Error)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results", len(resp.Results))
	}
	first := resp.Results[0]
	if first.Price == nil || *first.Price != 12.99 || first.Source != "catalog" || first.Rank != 0 {
		t.Fatalf("first payload mismatch: %+v", first)
	}
	if len(resp.Citations) != 2 || resp.Answer == "" {
		t.Fatalf("additive fields missing: %+v", resp)
	}
}
