// Package refresh keeps the joke dataset and its search index current. A
// pass fetches fresh jokes, swaps the dataset, rebuilds the index, and
// snapshots the embeddings so restarts skip the rebuild.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/internal/search"
)

const jobTimeout = 10 * time.Minute

// Fetcher retrieves a fresh joke dataset.
type Fetcher interface {
	Fetch(ctx context.Context, existing []jokes.Joke) ([]jokes.Joke, error)
}

// Dataset is the slice of the joke collection a refresh touches.
type Dataset interface {
	All() []jokes.Joke
	Replace(jokes []jokes.Joke) error
}

// Indexer rebuilds and snapshots the search index.
type Indexer interface {
	Build(ctx context.Context, docs []search.Document) error
	Save(path string) error
}

// Refresher runs dataset refresh passes, on demand or on a cron schedule.
type Refresher struct {
	fetcher      Fetcher
	dataset      Dataset
	index        Indexer
	snapshotPath string
	logger       logging.Logger
	cron         *cron.Cron
}

// NewRefresher wires a refresher. The snapshot path may be empty to skip
// persisting the rebuilt index.
func NewRefresher(fetcher Fetcher, dataset Dataset, index Indexer, snapshotPath string, logger logging.Logger) *Refresher {
	return &Refresher{
		fetcher:      fetcher,
		dataset:      dataset,
		index:        index,
		snapshotPath: snapshotPath,
		logger:       logger.With(zap.String("component", "refresh")),
	}
}

// Run executes one refresh pass. A fetch error aborts before anything is
// replaced, so the previous dataset keeps serving.
func (r *Refresher) Run(ctx context.Context) error {
	fetched, err := r.fetcher.Fetch(ctx, r.dataset.All())
	if err != nil {
		return fmt.Errorf("fetch jokes: %w", err)
	}

	if err := r.dataset.Replace(fetched); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}

	if err := r.index.Build(ctx, Documents(fetched)); err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}

	if r.snapshotPath != "" {
		if err := r.index.Save(r.snapshotPath); err != nil {
			r.logger.Warn("index snapshot not saved", zap.Error(err))
		}
	}

	r.logger.Info("joke dataset refreshed", zap.Int("jokes", len(fetched)))
	return nil
}

// Start schedules refresh passes with the given cron spec. An empty spec
// disables scheduling.
func (r *Refresher) Start(spec string) error {
	if spec == "" {
		r.logger.Info("scheduled refresh disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, r.runScheduled); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	c.Start()
	r.cron = c
	r.logger.Info("scheduled refresh started", zap.String("schedule", spec))
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

func (r *Refresher) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := r.Run(ctx); err != nil {
		r.logger.Error("scheduled refresh failed", zap.Error(err))
	}
}

// Documents converts a joke dataset into the documents the search index
// embeds, one per joke, keyed by the joke id.
func Documents(dataset []jokes.Joke) []search.Document {
	docs := make([]search.Document, 0, len(dataset))
	for _, j := range dataset {
		docs = append(docs, search.Document{ID: j.ID, Text: j.Text()})
	}
	return docs
}
