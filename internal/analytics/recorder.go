package analytics

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/pkg/clock"
)

// EventPublisher mirrors appended events to an external stream. Publishing
// is best-effort; the file store remains the source of truth.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder timestamps analytics events and appends them to the store,
// optionally mirroring each append to a publisher.
type Recorder struct {
	store     EventStore
	publisher EventPublisher
	logger    logging.Logger
	clock     clock.Clock
}

// NewRecorder builds a Recorder. publisher may be nil when no mirror is
// configured.
func NewRecorder(store EventStore, publisher EventPublisher, logger logging.Logger, clk clock.Clock) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "analytics_recorder")),
		clock:     clk,
	}
}

// RecordQuery appends a query outcome event.
func (r *Recorder) RecordQuery(ctx context.Context, q QueryEvent) error {
	return r.record(ctx, NewQueryEvent(r.clock.Now(), q))
}

// RecordFeedback appends a feedback event.
func (r *Recorder) RecordFeedback(ctx context.Context, f FeedbackEvent) error {
	return r.record(ctx, NewFeedbackEvent(r.clock.Now(), f))
}

// RecordFailure appends a backend failure event.
func (r *Recorder) RecordFailure(ctx context.Context, f FailureEvent) error {
	return r.record(ctx, NewFailureEvent(r.clock.Now(), f))
}

func (r *Recorder) record(ctx context.Context, event Event) error {
	if err := r.store.Append(event); err != nil {
		r.logger.Error("failed to append analytics event",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return fmt.Errorf("record %s event: %w", event.Type, err)
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.logger.Warn("failed to mirror analytics event",
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}

	r.logger.Debug("analytics event recorded", zap.String("event_type", string(event.Type)))
	return nil
}
