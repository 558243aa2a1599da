package fakes

import (
	"context"
	"sync"

	"github.com/punchlinehq/punchline/internal/search"
)

// FakeSearcher returns scripted matches and records each query. When Err is
// set it fails every call, or only from the FailFrom-th call (1-based) when
// that is positive.
type FakeSearcher struct {
	mu       sync.Mutex
	Matches  []search.Match
	Err      error
	FailFrom int
	Queries  []string
	Ks       []int
}

func (f *FakeSearcher) Search(_ context.Context, query string, k int) ([]search.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, query)
	f.Ks = append(f.Ks, k)
	if f.Err != nil && (f.FailFrom <= 0 || len(f.Queries) >= f.FailFrom) {
		return nil, f.Err
	}
	if len(f.Matches) > k {
		return f.Matches[:k], nil
	}
	return f.Matches, nil
}
