package analytics

import (
	"fmt"
	"sort"
	"time"
)

const (
	// DefaultViewLimit caps view results when the caller passes no limit.
	DefaultViewLimit = 20
	// MaxViewLimit is the hard cap on view results.
	MaxViewLimit = 100
	// DefaultLowSatisfactionThreshold selects ratings of 2 and below.
	DefaultLowSatisfactionThreshold = 2
)

// Stats summarizes the whole event log. Averages are 0 when no record
// contributes to them.
type Stats struct {
	TotalQueries      int     `json:"total_queries"`
	SuccessfulQueries int     `json:"successful_queries"`
	FailedQueries     int     `json:"failed_queries"`
	NoResultsQueries  int     `json:"no_results_queries"`
	NSFWBlocked       int     `json:"nsfw_blocked"`
	LLMFailures       int     `json:"llm_failures"`
	SearchFailures    int     `json:"search_failures"`
	FeedbackCount     int     `json:"feedback_count"`
	SuccessRate       float64 `json:"success_rate"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	AvgJokesPerQuery  float64 `json:"avg_jokes_per_query"`
	AvgRating         float64 `json:"avg_rating"`
}

// TimestampedQuery pairs a query event with its envelope timestamp.
type TimestampedQuery struct {
	Timestamp time.Time `json:"timestamp"`
	QueryEvent
}

// LowSatisfactionEntry is a low-rated feedback record, joined with the
// query it rated when that query is present in the log.
type LowSatisfactionEntry struct {
	Timestamp time.Time `json:"timestamp"`
	FeedbackEvent
	Query *TimestampedQuery `json:"query,omitempty"`
}

// Aggregator derives read-only views from the event store. Every call
// recomputes from a full load; nothing is cached, so views always reflect
// the latest appends.
type Aggregator struct {
	store EventStore
}

// NewAggregator builds an Aggregator over store.
func NewAggregator(store EventStore) *Aggregator {
	return &Aggregator{store: store}
}

// Stats computes aggregate counters and averages over the full log.
func (a *Aggregator) Stats() (Stats, error) {
	events, err := a.store.Load()
	if err != nil {
		return Stats{}, fmt.Errorf("load analytics events: %w", err)
	}

	var st Stats
	var totalMs, totalJokes, jokeQueries, totalRating uint64
	for _, e := range events {
		switch e.Type {
		case EventTypeQuery:
			if e.Query == nil {
				continue
			}
			st.TotalQueries++
			switch e.Query.ResponseType {
			case ResponseSuccess:
				st.SuccessfulQueries++
			case ResponseError:
				st.FailedQueries++
			case ResponseNoResults:
				st.NoResultsQueries++
			case ResponseNSFWBlocked:
				st.NSFWBlocked++
			}
			totalMs += uint64(e.Query.ResponseTimeMs)
			if e.Query.JokesCount > 0 {
				totalJokes += uint64(e.Query.JokesCount)
				jokeQueries++
			}
		case EventTypeFeedback:
			if e.Feedback == nil {
				continue
			}
			st.FeedbackCount++
			totalRating += uint64(e.Feedback.Rating)
		case EventTypeFailure:
			if e.Failure == nil {
				continue
			}
			switch e.Failure.Source {
			case FailureSourceLLM:
				st.LLMFailures++
			case FailureSourceSearch:
				st.SearchFailures++
			}
		}
	}

	if st.TotalQueries > 0 {
		st.SuccessRate = float64(st.SuccessfulQueries) / float64(st.TotalQueries) * 100
		st.AvgResponseTimeMs = float64(totalMs) / float64(st.TotalQueries)
	}
	if jokeQueries > 0 {
		st.AvgJokesPerQuery = float64(totalJokes) / float64(jokeQueries)
	}
	if st.FeedbackCount > 0 {
		st.AvgRating = float64(totalRating) / float64(st.FeedbackCount)
	}
	return st, nil
}

// FailedQueries returns query events whose response_type is error or
// no_results, most recent first. Equal timestamps keep their append order.
// limit <= 0 means DefaultViewLimit; anything above MaxViewLimit is clamped.
func (a *Aggregator) FailedQueries(limit int) ([]TimestampedQuery, error) {
	events, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load analytics events: %w", err)
	}

	failed := []TimestampedQuery{}
	for _, e := range events {
		if e.Type != EventTypeQuery || e.Query == nil {
			continue
		}
		if e.Query.ResponseType != ResponseError && e.Query.ResponseType != ResponseNoResults {
			continue
		}
		failed = append(failed, TimestampedQuery{Timestamp: e.Timestamp, QueryEvent: *e.Query})
	}

	sort.SliceStable(failed, func(i, j int) bool {
		return failed[i].Timestamp.After(failed[j].Timestamp)
	})
	if n := normalizeLimit(limit); len(failed) > n {
		failed = failed[:n]
	}
	return failed, nil
}

// LowSatisfaction returns feedback events rated at or below threshold, most
// recent first, each joined with the latest query event sharing its
// query_id. threshold <= 0 means DefaultLowSatisfactionThreshold; limit
// follows the same rules as FailedQueries.
func (a *Aggregator) LowSatisfaction(threshold, limit int) ([]LowSatisfactionEntry, error) {
	events, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load analytics events: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultLowSatisfactionThreshold
	}

	queries := map[int64]TimestampedQuery{}
	for _, e := range events {
		if e.Type == EventTypeQuery && e.Query != nil {
			queries[e.Query.QueryID] = TimestampedQuery{Timestamp: e.Timestamp, QueryEvent: *e.Query}
		}
	}

	entries := []LowSatisfactionEntry{}
	for _, e := range events {
		if e.Type != EventTypeFeedback || e.Feedback == nil {
			continue
		}
		if e.Feedback.Rating > threshold {
			continue
		}
		entry := LowSatisfactionEntry{Timestamp: e.Timestamp, FeedbackEvent: *e.Feedback}
		if q, ok := queries[e.Feedback.QueryID]; ok {
			entry.Query = &q
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if n := normalizeLimit(limit); len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultViewLimit
	}
	if limit > MaxViewLimit {
		return MaxViewLimit
	}
	return limit
}
