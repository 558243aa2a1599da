package fakes

import (
	"sync"

	"github.com/punchlinehq/punchline/internal/analytics"
)

// FakeEventStore is an in-memory analytics.EventStore.
type FakeEventStore struct {
	mu        sync.Mutex
	Events    []analytics.Event
	AppendErr error
	LoadErr   error
}

func NewFakeEventStore() *FakeEventStore {
	return &FakeEventStore{}
}

func (f *FakeEventStore) Append(event analytics.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AppendErr != nil {
		return f.AppendErr
	}
	f.Events = append(f.Events, event)
	return nil
}

func (f *FakeEventStore) Load() ([]analytics.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	out := make([]analytics.Event, len(f.Events))
	copy(out, f.Events)
	return out, nil
}

// OfType returns the stored events carrying the given type, in order.
func (f *FakeEventStore) OfType(t analytics.EventType) []analytics.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []analytics.Event{}
	for _, e := range f.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
