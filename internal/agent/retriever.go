package agent

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kayz/shopmate/internal/catalog"
	"github.com/kayz/shopmate/internal/config"
	"github.com/kayz/shopmate/internal/logger"
	"github.com/kayz/shopmate/internal/normalize"
	"github.com/kayz/shopmate/internal/search"
)

// WebSearcher is the web search collaborator contract the retriever needs.
// *search.Manager satisfies it.
type WebSearcher interface {
	Search(ctx context.Context, query string, domains []string, limit int) (*search.Response, error)
}

// Retriever queries the catalog and the web concurrently, normalizes both
// raw result sets into the canonical shape, reconciles them into one
// de-duplicated list, and ranks it. It never fails the pipeline: a dead
// source degrades to an empty contribution with a logged note.
type Retriever struct {
	catalog catalog.Searcher
	web     WebSearcher
	lookup  search.PriceLookup
	cfg     config.RetrievalConfig
}

func NewRetriever(cat catalog.Searcher, web WebSearcher, lookup search.PriceLookup, cfg config.RetrievalConfig) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.SourceTimeoutSec <= 0 {
		cfg.SourceTimeoutSec = 8
	}
	if cfg.LookupTimeoutSec <= 0 {
		cfg.LookupTimeoutSec = 5
	}
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = 3
	}
	return &Retriever{catalog: cat, web: web, lookup: lookup, cfg: cfg}
}

type sourceOutcome struct {
	source  Source
	results []RawResult
	err     error
}

// Retrieve runs the configured strategy and fills state.Reconciled. The
// final ranking is deterministic and independent of which source answers
// first.
func (r *Retriever) Retrieve(ctx context.Context, st *ConversationState) {
	wantCatalog := st.Strategy != StrategyWebOnly && r.catalog != nil
	wantWeb := st.Strategy != StrategyCatalogOnly && r.web != nil

	sourceTimeout := time.Duration(r.cfg.SourceTimeoutSec) * time.Second
	outcomes := make(chan sourceOutcome, 2)
	expected := 0

	if wantCatalog {
		expected++
		go func() {
			srcCtx, cancel := context.WithTimeout(ctx, sourceTimeout)
			defer cancel()
			hits, err := r.catalog.Search(srcCtx, st.Query, r.cfg.TopK)
			outcomes <- sourceOutcome{source: SourceCatalog, results: normalizeCatalogHits(hits), err: err}
		}()
	}
	if wantWeb {
		expected++
		go func() {
			srcCtx, cancel := context.WithTimeout(ctx, sourceTimeout)
			defer cancel()
			resp, err := r.web.Search(srcCtx, st.Query, r.cfg.AllowedDomains, r.cfg.TopK)
			if err != nil {
				outcomes <- sourceOutcome{source: SourceWeb, err: err}
				return
			}
			outcomes <- sourceOutcome{source: SourceWeb, results: r.normalizeWebHits(srcCtx, resp.Results)}
		}()
	}

	if expected == 0 {
		st.AppendLog("retriever", "no sources available for strategy %s", st.Strategy)
		st.Reconciled = []ReconciledResult{}
		return
	}

	for i := 0; i < expected; i++ {
		select {
		case out := <-outcomes:
			if out.err != nil {
				logger.Warn("%s source failed: %v", out.source, out.err)
				st.AppendLog("retriever", "%s source degraded: %v", out.source, out.err)
				continue
			}
			switch out.source {
			case SourceCatalog:
				st.RawCatalogResults = out.results
			case SourceWeb:
				st.RawWebResults = out.results
			}
		case <-ctx.Done():
			// Caller cancelled: discard partial work.
			st.AppendLog("retriever", "cancelled: %v", ctx.Err())
			st.RawCatalogResults = nil
			st.RawWebResults = nil
			st.Reconciled = []ReconciledResult{}
			return
		}
	}

	st.Reconciled = r.reconcile(st.RawCatalogResults, st.RawWebResults)
	st.AppendLog("retriever", "reconciled %d results (catalog=%d web=%d strategy=%s)",
		len(st.Reconciled), len(st.RawCatalogResults), len(st.RawWebResults), st.Strategy)
}

// normalizeCatalogHits maps catalog hits onto the canonical shape. The
// stored metadata price is trusted but still bound-checked; a price outside
// (0, 10000) is dropped to absent rather than poisoning the merge.
func normalizeCatalogHits(hits []catalog.Hit) []RawResult {
	results := make([]RawResult, 0, len(hits))
	for _, h := range hits {
		if h.ID == "" && h.Title == "" {
			continue
		}
		key := h.ID
		if key == "" {
			key = normalize.IdentityKey(h.URL)
		}
		res := RawResult{
			IdentityKey: key,
			Title:       h.Title,
			URL:         h.URL,
			Score:       h.Score,
			HasScore:    true,
			Source:      SourceCatalog,
		}
		if h.HasPrice && h.Price > 0 && h.Price < 10000 {
			res.Price = h.Price
			res.HasPrice = true
		}
		results = append(results, res)
	}
	return results
}

// normalizeWebHits enforces the domain allowlist, keeps genuine product
// pages (falling back, per domain, to whatever passed the allowlist when the
// pattern set recognizes nothing), and resolves a price for each survivor.
func (r *Retriever) normalizeWebHits(ctx context.Context, hits []search.Result) []RawResult {
	type allowedHit struct {
		hit       search.Result
		domain    string
		isProduct bool
	}

	allowed := make([]allowedHit, 0, len(hits))
	domainHasProduct := make(map[string]bool)
	for _, h := range hits {
		domain, ok := normalize.MatchedAllowedDomain(h.URL, r.cfg.AllowedDomains)
		if !ok {
			continue
		}
		isProduct := normalize.IsProductPage(h.URL, r.cfg.AllowedDomains)
		if isProduct {
			domainHasProduct[domain] = true
		}
		allowed = append(allowed, allowedHit{hit: h, domain: domain, isProduct: isProduct})
	}

	results := make([]RawResult, 0, len(allowed))
	for _, a := range allowed {
		// Listing pages are only useful when the domain produced no
		// recognizable product page for this query.
		if !a.isProduct && domainHasProduct[a.domain] {
			continue
		}
		res := RawResult{
			IdentityKey: normalize.IdentityKey(a.hit.URL),
			Title:       a.hit.Title,
			URL:         a.hit.URL,
			Snippet:     a.hit.Snippet,
			Score:       a.hit.Score,
			HasScore:    a.hit.HasScore,
			Source:      SourceWeb,
		}
		if price, ok := normalize.ExtractPrice(a.hit.Title); ok {
			res.Price = price
			res.HasPrice = true
		} else if price, ok := normalize.ExtractPrice(a.hit.Snippet); ok {
			res.Price = price
			res.HasPrice = true
		}
		results = append(results, res)
	}

	r.resolveMissingPrices(ctx, results)
	return results
}

// resolveMissingPrices runs the authoritative per-item lookup for web hits
// that still lack a price and carry a recognizable marketplace item code.
// Lookups run at bounded concurrency; a failed or timed-out lookup leaves
// that item's price absent and never aborts the batch.
func (r *Retriever) resolveMissingPrices(ctx context.Context, results []RawResult) {
	if r.lookup == nil {
		return
	}

	type pending struct {
		idx  int
		code string
	}
	var queue []pending
	for i := range results {
		if results[i].HasPrice {
			continue
		}
		code, ok := normalize.ExtractItemCode(results[i].URL)
		if !ok {
			continue
		}
		queue = append(queue, pending{idx: i, code: code})
	}
	if len(queue) == 0 {
		return
	}

	lookupTimeout := time.Duration(r.cfg.LookupTimeoutSec) * time.Second
	sem := make(chan struct{}, r.cfg.LookupConcurrency)
	var wg sync.WaitGroup

	for _, p := range queue {
		wg.Add(1)
		go func(p pending) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
			defer cancel()

			info, err := r.lookup.Lookup(lookupCtx, p.code)
			if err != nil {
				logger.Debug("price lookup failed for %s: %v", p.code, err)
				return
			}
			if info == nil {
				return
			}
			if info.HasPrice && info.Price > 0 && info.Price < 10000 {
				results[p.idx].Price = info.Price
				results[p.idx].HasPrice = true
			}
			if info.Title != "" {
				results[p.idx].Title = info.Title
			}
		}(p)
	}
	wg.Wait()
}

// reconcile merges both sources by identity key and sorts the survivors into
// the documented total order.
func (r *Retriever) reconcile(catalogResults, webResults []RawResult) []ReconciledResult {
	merged := make(map[string]RawResult, len(catalogResults)+len(webResults))

	for _, res := range catalogResults {
		merged[res.IdentityKey] = res
	}
	for _, res := range webResults {
		existing, collision := merged[res.IdentityKey]
		if !collision {
			merged[res.IdentityKey] = res
			continue
		}
		// Same item from both sources: keep the catalog record, but let a
		// web price fill a catalog gap. Catalog metadata beats free-text
		// extraction unless explicitly configured otherwise.
		if res.HasPrice && (!existing.HasPrice || r.cfg.PreferWebPrice) {
			existing.Price = res.Price
			existing.HasPrice = true
		}
		if !existing.HasScore && res.HasScore {
			existing.Score = res.Score
			existing.HasScore = true
		}
		if existing.Snippet == "" {
			existing.Snippet = res.Snippet
		}
		merged[res.IdentityKey] = existing
	}

	flat := make([]RawResult, 0, len(merged))
	for _, res := range merged {
		flat = append(flat, res)
	}

	sort.Slice(flat, func(i, j int) bool {
		return lessResult(flat[i], flat[j])
	})

	if len(flat) > r.cfg.TopK {
		flat = flat[:r.cfg.TopK]
	}

	reconciled := make([]ReconciledResult, len(flat))
	for i, res := range flat {
		reconciled[i] = ReconciledResult{RawResult: res, Rank: i}
	}
	return reconciled
}

// lessResult is the documented total order: similarity score descending
// (absent scores last), then catalog before web, then price ascending
// (absent prices last), then title, then identity key so the order is total
// even for identical titles.
func lessResult(a, b RawResult) bool {
	if a.HasScore != b.HasScore {
		return a.HasScore
	}
	if a.HasScore && a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Source != b.Source {
		return a.Source == SourceCatalog
	}
	if a.HasPrice != b.HasPrice {
		return a.HasPrice
	}
	if a.HasPrice && a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.IdentityKey < b.IdentityKey
}
