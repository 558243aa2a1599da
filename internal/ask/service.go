package ask

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/llm"
	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/internal/search"
	"github.com/punchlinehq/punchline/pkg/clock"
)

const (
	msgNSFWRefusal       = "I cannot provide NSFW or inappropriate content. All jokes in my collection are filtered to exclude such content."
	msgFound             = "Here's what I found for you:"
	msgNoMatch           = "I couldn't find any jokes matching your request."
	msgNonePicked        = "I couldn't find a joke that matches your request perfectly. Would you like a random joke instead?"
	msgNoneExist         = "No, I don't have any jokes matching that description in my collection."
	msgSearchTrouble     = "I'm having trouble searching the joke collection. Please try again."
	msgProcessingTrouble = "I'm having trouble processing your request. Here's a random joke instead:"
)

const topicPromptTemplate = `Analyze this question: "%s"

The user is asking about the count of jokes in a specific category or topic.
Based on the question, what category or topic are they asking about?
Return ONLY the category/topic name (e.g., "physics", "programming", "christmas", "misc").
If unclear, return "unknown".`

const recommendPromptTemplate = `You are a helpful assistant that recommends jokes based on user requests.

User request: %s

Here are some relevant jokes from the collection:
%s

Based on the user's request, select the joke number(s) that best match what they're asking for.
Return ONLY the joke number(s) separated by commas (e.g., "1" or "1,3,5").
If none match well, return "none".`

const (
	maxExamples     = 3
	existenceTopK   = 10
	existenceJoined = 5
	recommendTopK   = 5
	fallbackTopK    = 3
)

var (
	nsfwKeywords  = []string{"nsfw", "inappropriate", "explicit", "adult", "dirty", "sexual"}
	existenceCues = []string{"are there", "do you have", "is there", "any"}
	howManyTopic  = regexp.MustCompile(`how many (\w+)`)
)

// Searcher is the slice of the search index the ask flow needs.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]search.Match, error)
}

// JokeSource is the slice of the joke collection the ask flow needs.
type JokeSource interface {
	All() []jokes.Joke
	Random() (jokes.Joke, bool)
	FilterByTopic(topic string) []jokes.Joke
}

// Result is the answer to one user request.
type Result struct {
	Response string       `json:"response"`
	Jokes    []jokes.Joke `json:"jokes"`
	QueryID  int64        `json:"query_id"`
}

// Service answers joke requests: it screens the message, takes the count or
// existence shortcut when one applies, and otherwise recommends jokes via
// search plus model selection. Every request past validation is recorded as
// exactly one query event; backend failures are recorded separately.
type Service struct {
	collection JokeSource
	index      Searcher
	model      llm.Client
	recorder   *analytics.Recorder
	clock      clock.Clock
	logger     logging.Logger
}

// NewService wires the ask flow dependencies.
func NewService(collection JokeSource, index Searcher, model llm.Client, recorder *analytics.Recorder, clk clock.Clock, logger logging.Logger) *Service {
	return &Service{
		collection: collection,
		index:      index,
		model:      model,
		recorder:   recorder,
		clock:      clk,
		logger:     logger.With(zap.String("component", "ask_service")),
	}
}

// Ask runs the query flow for one user message.
func (s *Service) Ask(ctx context.Context, message string) (Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Result{}, NewValidationError("no message provided")
	}

	start := s.clock.Now()
	queryID := start.UnixMilli()
	lower := strings.ToLower(message)

	if containsAny(lower, nsfwKeywords) {
		s.recordQuery(ctx, queryID, message, analytics.ResponseNSFWBlocked, 0, start, nil)
		return Result{Response: msgNSFWRefusal, Jokes: []jokes.Joke{}, QueryID: queryID}, nil
	}

	all := s.collection.All()
	if len(all) == 0 {
		s.recordQuery(ctx, queryID, message, analytics.ResponseError, 0, start, strPtr(ErrNoJokes.Error()))
		return Result{}, ErrNoJokes
	}

	if strings.Contains(lower, "how many") || strings.Contains(lower, "count") {
		return s.answerCount(ctx, queryID, message, start), nil
	}

	if strings.HasSuffix(message, "?") && containsAny(lower, existenceCues) {
		return s.answerExistence(ctx, queryID, message, all, start), nil
	}

	return s.recommend(ctx, queryID, message, all, start), nil
}

// answerCount handles "how many X jokes" questions. The topic comes from
// the model, falling back to keyword extraction when the model call fails.
func (s *Service) answerCount(ctx context.Context, queryID int64, message string, start time.Time) Result {
	topic := s.extractTopic(ctx, message)
	matching := s.collection.FilterByTopic(topic)

	if len(matching) == 0 {
		s.recordQuery(ctx, queryID, message, analytics.ResponseNoResults, 0, start, nil)
		return Result{
			Response: fmt.Sprintf("I have 0 %s jokes in my collection.", topic),
			Jokes:    []jokes.Joke{},
			QueryID:  queryID,
		}
	}

	examples := matching
	if len(examples) > maxExamples {
		examples = examples[:maxExamples]
	}
	s.recordQuery(ctx, queryID, message, analytics.ResponseSuccess, uint(len(examples)), start, nil)
	return Result{
		Response: fmt.Sprintf("I have %d %s joke%s in my collection.", len(matching), topic, plural(len(matching))),
		Jokes:    examples,
		QueryID:  queryID,
	}
}

func (s *Service) extractTopic(ctx context.Context, message string) string {
	prompt := fmt.Sprintf(topicPromptTemplate, message)
	resp, err := s.model.Generate(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err == nil {
		if topic := strings.ToLower(strings.TrimSpace(resp.Content)); topic != "" {
			return topic
		}
		err = errors.New("empty response from model")
	}
	s.logger.Warn("topic extraction failed, using keyword fallback", zap.Error(err))

	if m := howManyTopic.FindStringSubmatch(strings.ToLower(message)); m != nil {
		return m[1]
	}
	return "unknown"
}

// answerExistence handles trailing-question-mark existence questions with a
// yes/no answer backed by a search.
func (s *Service) answerExistence(ctx context.Context, queryID int64, message string, all []jokes.Joke, start time.Time) Result {
	matches, err := s.index.Search(ctx, message, existenceTopK)
	if err != nil {
		s.recordFailure(ctx, analytics.FailureSourceSearch, "search_error", err, nil)
		s.recordQuery(ctx, queryID, message, analytics.ResponseError, 0, start, strPtr(err.Error()))
		return Result{Response: msgSearchTrouble, Jokes: []jokes.Joke{}, QueryID: queryID}
	}

	if len(matches) > existenceJoined {
		matches = matches[:existenceJoined]
	}
	found := resolveJokes(matches, all)
	if len(found) == 0 {
		s.recordQuery(ctx, queryID, message, analytics.ResponseNoResults, 0, start, nil)
		return Result{Response: msgNoneExist, Jokes: []jokes.Joke{}, QueryID: queryID}
	}

	examples := found
	if len(examples) > maxExamples {
		examples = examples[:maxExamples]
	}
	s.recordQuery(ctx, queryID, message, analytics.ResponseSuccess, uint(len(examples)), start, nil)
	return Result{
		Response: fmt.Sprintf("Yes, I found %d joke%s matching your query. Here are some examples:", len(found), plural(len(found))),
		Jokes:    examples,
		QueryID:  queryID,
	}
}

// recommend is the main retrieval path: search, let the model pick from the
// hits, and degrade stepwise when a backend fails.
func (s *Service) recommend(ctx context.Context, queryID int64, message string, all []jokes.Joke, start time.Time) Result {
	matches, err := s.index.Search(ctx, message, recommendTopK)
	if err != nil {
		s.recordFailure(ctx, analytics.FailureSourceSearch, "search_error", err, strPtr("random_joke"))
		return s.consolationRandom(ctx, queryID, message, start, err)
	}
	if len(matches) == 0 {
		s.recordQuery(ctx, queryID, message, analytics.ResponseNoResults, 0, start, nil)
		return Result{Response: msgNoMatch, Jokes: []jokes.Joke{}, QueryID: queryID}
	}

	selection, err := s.selectWithModel(ctx, message, matches)
	if err != nil {
		s.recordFailure(ctx, analytics.FailureSourceLLM, "llm_selection_error", err, strPtr("search_direct"))
		return s.recommendDirect(ctx, queryID, message, all, start)
	}

	if selection == nil {
		s.recordQuery(ctx, queryID, message, analytics.ResponseNoResults, 0, start, nil)
		return Result{Response: msgNonePicked, Jokes: []jokes.Joke{}, QueryID: queryID}
	}

	picked := make([]search.Match, 0, len(selection))
	for _, idx := range selection {
		if idx >= 0 && idx < len(matches) {
			picked = append(picked, matches[idx])
		}
	}
	selected := resolveJokes(picked, all)
	if len(selected) == 0 {
		// Unusable model reply, e.g. numbers out of range. Top hit wins.
		selected = resolveJokes(matches[:1], all)
	}

	s.recordQuery(ctx, queryID, message, analytics.ResponseSuccess, uint(len(selected)), start, nil)
	return Result{Response: msgFound, Jokes: selected, QueryID: queryID}
}

// recommendDirect skips model selection and returns the top search hits.
// Used after a model failure; when the search now fails too, the request
// degrades to a random joke.
func (s *Service) recommendDirect(ctx context.Context, queryID int64, message string, all []jokes.Joke, start time.Time) Result {
	matches, err := s.index.Search(ctx, message, fallbackTopK)
	if err != nil {
		return s.consolationRandom(ctx, queryID, message, start, err)
	}
	fallback := resolveJokes(matches, all)
	s.recordQuery(ctx, queryID, message, analytics.ResponseSuccess, uint(len(fallback)), start, nil)
	return Result{Response: msgFound, Jokes: fallback, QueryID: queryID}
}

// consolationRandom records the request as failed and answers with a random
// joke so the user still gets something.
func (s *Service) consolationRandom(ctx context.Context, queryID int64, message string, start time.Time, cause error) Result {
	s.recordQuery(ctx, queryID, message, analytics.ResponseError, 0, start, strPtr(cause.Error()))
	consolation := []jokes.Joke{}
	if joke, ok := s.collection.Random(); ok {
		consolation = append(consolation, joke)
	}
	return Result{Response: msgProcessingTrouble, Jokes: consolation, QueryID: queryID}
}

// selectWithModel asks the model to pick joke numbers from the matches. It
// returns nil indices when the model answers "none", and an error when the
// call fails or comes back empty.
func (s *Service) selectWithModel(ctx context.Context, message string, matches []search.Match) ([]int, error) {
	numbered := make([]string, 0, len(matches))
	for i, m := range matches {
		numbered = append(numbered, fmt.Sprintf("Joke %d: %s", i+1, m.Text))
	}
	prompt := fmt.Sprintf(recommendPromptTemplate, message, strings.Join(numbered, "\n\n"))

	resp, err := s.model.Generate(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}
	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return nil, errors.New("empty response from model")
	}
	if strings.EqualFold(answer, "none") {
		return nil, nil
	}

	indices := []int{}
	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if n, convErr := strconv.Atoi(part); convErr == nil && n > 0 {
			indices = append(indices, n-1)
		}
	}
	return indices, nil
}

func (s *Service) recordQuery(ctx context.Context, queryID int64, message string, rt analytics.ResponseType, jokesCount uint, start time.Time, errMsg *string) {
	elapsed := s.clock.Now().Sub(start)
	err := s.recorder.RecordQuery(ctx, analytics.QueryEvent{
		QueryID:        queryID,
		UserMessage:    message,
		ResponseType:   rt,
		JokesCount:     jokesCount,
		ResponseTimeMs: uint(elapsed.Milliseconds()),
		Error:          errMsg,
	})
	if err != nil {
		s.logger.Warn("query event not recorded", zap.Error(err))
	}
}

func (s *Service) recordFailure(ctx context.Context, source analytics.FailureSource, errorType string, cause error, fallback *string) {
	err := s.recorder.RecordFailure(ctx, analytics.FailureEvent{
		Source:       source,
		ErrorType:    errorType,
		ErrorMessage: cause.Error(),
		FallbackUsed: fallback,
	})
	if err != nil {
		s.logger.Warn("failure event not recorded", zap.Error(err))
	}
}

// resolveJokes maps search matches back to collection jokes by id.
func resolveJokes(matches []search.Match, all []jokes.Joke) []jokes.Joke {
	byID := make(map[int]jokes.Joke, len(all))
	for _, j := range all {
		byID[j.ID] = j
	}
	out := []jokes.Joke{}
	for _, m := range matches {
		if j, ok := byID[m.ID]; ok {
			out = append(out, j)
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func strPtr(s string) *string {
	return &s
}
