package analytics

import (
	"fmt"
	"time"
)

// SchemaVersion is stamped on every persisted event so a future format change
// can be detected without guessing. There is no migration machinery; readers
// only ever see version 1.
const SchemaVersion = 1

// EventType discriminates the persisted record variants.
type EventType string

const (
	EventTypeQuery    EventType = "query"
	EventTypeFeedback EventType = "feedback"
	EventTypeFailure  EventType = "failure"
)

// ResponseType classifies the outcome of one user query.
type ResponseType string

const (
	ResponseSuccess     ResponseType = "success"
	ResponseError       ResponseType = "error"
	ResponseNoResults   ResponseType = "no_results"
	ResponseNSFWBlocked ResponseType = "nsfw_blocked"
)

// FailureSource identifies which backend reported a failure.
type FailureSource string

const (
	FailureSourceLLM    FailureSource = "llm"
	FailureSourceSearch FailureSource = "search_backend"
)

// Event is one immutable analytics record. Exactly one of the variant
// pointers is set, matching Type. Records are append-only: once persisted
// they are never updated or deleted.
type Event struct {
	SchemaVersion int       `json:"schema_version"`
	Type          EventType `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`

	Query    *QueryEvent    `json:"query,omitempty"`
	Feedback *FeedbackEvent `json:"feedback,omitempty"`
	Failure  *FailureEvent  `json:"failure,omitempty"`
}

// QueryEvent records one user request and its outcome. QueryID is derived
// from a coarse clock (milliseconds at request start); uniqueness is
// best-effort and not enforced.
type QueryEvent struct {
	QueryID        int64        `json:"query_id"`
	UserMessage    string       `json:"user_message"`
	ResponseType   ResponseType `json:"response_type"`
	JokesCount     uint         `json:"jokes_count"`
	ResponseTimeMs uint         `json:"response_time_ms"`
	Error          *string      `json:"error,omitempty"`
}

// FeedbackEvent records a satisfaction rating for a prior query. QueryID
// references a QueryEvent but the link is not enforced; feedback against an
// unknown id is stored as an unlinked record.
type FeedbackEvent struct {
	QueryID int64   `json:"query_id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// FailureEvent records a backend failure and the fallback taken, if any.
type FailureEvent struct {
	Source       FailureSource `json:"source"`
	ErrorType    string        `json:"error_type"`
	ErrorMessage string        `json:"error_message"`
	FallbackUsed *string       `json:"fallback_used,omitempty"`
}

// NewQueryEvent wraps a query outcome in a versioned envelope.
func NewQueryEvent(ts time.Time, q QueryEvent) Event {
	return Event{SchemaVersion: SchemaVersion, Type: EventTypeQuery, Timestamp: ts, Query: &q}
}

// NewFeedbackEvent wraps a feedback record in a versioned envelope.
func NewFeedbackEvent(ts time.Time, f FeedbackEvent) Event {
	return Event{SchemaVersion: SchemaVersion, Type: EventTypeFeedback, Timestamp: ts, Feedback: &f}
}

// NewFailureEvent wraps a backend failure in a versioned envelope.
func NewFailureEvent(ts time.Time, f FailureEvent) Event {
	return Event{SchemaVersion: SchemaVersion, Type: EventTypeFailure, Timestamp: ts, Failure: &f}
}

// Validate checks the tagged-union invariant: the variant pointer set must
// match Type, and the other variants must be nil.
func (e Event) Validate() error {
	var want, got int
	switch e.Type {
	case EventTypeQuery, EventTypeFeedback, EventTypeFailure:
		want = 1
	default:
		return fmt.Errorf("unknown event_type %q", e.Type)
	}
	if e.Query != nil {
		got++
		if e.Type != EventTypeQuery {
			return fmt.Errorf("event_type %q carries a query variant", e.Type)
		}
	}
	if e.Feedback != nil {
		got++
		if e.Type != EventTypeFeedback {
			return fmt.Errorf("event_type %q carries a feedback variant", e.Type)
		}
	}
	if e.Failure != nil {
		got++
		if e.Type != EventTypeFailure {
			return fmt.Errorf("event_type %q carries a failure variant", e.Type)
		}
	}
	if got != want {
		return fmt.Errorf("event_type %q has %d variants set, want %d", e.Type, got, want)
	}
	return nil
}
