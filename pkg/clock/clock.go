package clock

import (
	"sync"
	"time"
)

// Clock abstracts time retrieval so timestamps, query ids, and response-time
// measurements stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the wall-clock time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant. Useful for tests.
type FixedClock struct{ t time.Time }

func NewFixed(t time.Time) FixedClock { return FixedClock{t: t} }

func (f FixedClock) Now() time.Time { return f.t }

// StepClock starts at a base instant and advances by a fixed step on every
// Now call, so elapsed-time measurements come out non-zero and predictable.
type StepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func NewStep(start time.Time, step time.Duration) *StepClock {
	return &StepClock{t: start, step: step}
}

func (s *StepClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.t
	s.t = s.t.Add(s.step)
	return now
}
