package agent

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kayz/shopmate/internal/catalog"
	"github.com/kayz/shopmate/internal/search"
)

type fakeProvider struct {
	response string
	err      error
	panics   bool
	calls    atomic.Int64
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls.Add(1)
	if f.panics {
		panic("provider blew up")
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeCatalog struct {
	hits  []catalog.Hit
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (f *fakeCatalog) Search(ctx context.Context, _ string, _ int) ([]catalog.Hit, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeWeb struct {
	results []search.Result
	err     error
	delay   time.Duration
	calls   atomic.Int64
}

func (f *fakeWeb) Search(ctx context.Context, query string, _ []string, _ int) (*search.Response, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &search.Response{Query: query, Results: f.results, Engine: "fake"}, nil
}

type fakeLookup struct {
	items map[string]*search.ItemInfo
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (f *fakeLookup) Lookup(ctx context.Context, code string) (*search.ItemInfo, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items[code], nil
}
