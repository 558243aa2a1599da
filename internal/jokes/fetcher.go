package jokes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/pkg/clock"
)

// blacklistFlags excludes flagged content at the API level, before any
// local filtering happens.
const blacklistFlags = "nsfw,religious,political,racist,sexist,explicit"

const (
	batchAmount      = 10
	maxFetchBatches  = 30
	defaultHTTPLimit = 15 * time.Second
)

type batchResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Amount  int    `json:"amount"`
	Jokes   []Joke `json:"jokes"`
}

// Fetcher tops up the joke dataset from the upstream joke API.
type Fetcher struct {
	client  *http.Client
	baseURL string
	target  int
	logger  logging.Logger
	clock   clock.Clock
}

// NewFetcher builds a Fetcher against baseURL. client may be nil, in which
// case a default client with a request timeout is used.
func NewFetcher(baseURL string, target int, client *http.Client, logger logging.Logger, clk clock.Clock) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPLimit}
	}
	return &Fetcher{
		client:  client,
		baseURL: baseURL,
		target:  target,
		logger:  logger.With(zap.String("component", "joke_fetcher")),
		clock:   clk,
	}
}

// Fetch downloads batches until the dataset reaches the target size,
// starting from existing jokes and deduplicating by upstream id. New jokes
// are stamped with the fetch time. Any transport or upstream error aborts
// the fetch so the caller keeps its previous dataset.
func (f *Fetcher) Fetch(ctx context.Context, existing []Joke) ([]Joke, error) {
	out := make([]Joke, 0, f.target)
	seen := map[int]bool{}
	for _, j := range existing {
		if seen[j.ID] {
			continue
		}
		seen[j.ID] = true
		out = append(out, j)
	}

	for batch := 0; len(out) < f.target && batch < maxFetchBatches; batch++ {
		jokes, err := f.fetchBatch(ctx)
		if err != nil {
			return nil, err
		}
		fetchedAt := f.clock.Now()
		for _, j := range jokes {
			if err := j.Validate(); err != nil {
				f.logger.Warn("skipping malformed joke", zap.Error(err))
				continue
			}
			if seen[j.ID] {
				continue
			}
			seen[j.ID] = true
			j.FetchedAt = fetchedAt
			out = append(out, j)
		}
	}

	if len(out) > f.target {
		out = out[:f.target]
	}
	if len(out) < f.target {
		f.logger.Warn("fetch ended below target",
			zap.Int("jokes", len(out)),
			zap.Int("target", f.target))
	}
	return out, nil
}

func (f *Fetcher) fetchBatch(ctx context.Context) ([]Joke, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse joke api url: %w", err)
	}
	q := u.Query()
	q.Set("blacklistFlags", blacklistFlags)
	q.Set("amount", strconv.Itoa(batchAmount))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build joke api request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jokes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("joke api returned status %d", resp.StatusCode)
	}

	var body batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode joke api response: %w", err)
	}
	if body.Error {
		return nil, fmt.Errorf("joke api error: %s", body.Message)
	}
	return body.Jokes, nil
}
