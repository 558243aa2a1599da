package fakes

import (
	"context"
	"errors"
	"sync"

	"github.com/punchlinehq/punchline/internal/analytics"
)

// FakePublisher captures mirrored analytics events and can simulate
// failures.
type FakePublisher struct {
	mu        sync.Mutex
	Events    []analytics.Event
	FailNext  bool
	FailError error
}

func (p *FakePublisher) Publish(_ context.Context, event analytics.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNext {
		p.FailNext = false
		if p.FailError == nil {
			p.FailError = errors.New("publish failed")
		}
		return p.FailError
	}
	p.Events = append(p.Events, event)
	return nil
}
