package ask

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/internal/search"
	"github.com/punchlinehq/punchline/internal/testutil/fakes"
	"github.com/punchlinehq/punchline/pkg/clock"
)

var askStart = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func askSampleJokes() []jokes.Joke {
	return []jokes.Joke{
		{ID: 11, Category: "Programming", Type: jokes.JokeSingle, Joke: "A SQL query walks into a bar and joins two tables.", Safe: true, Lang: "en"},
		{ID: 22, Category: "Programming", Type: jokes.JokeTwoPart, Setup: "Why do Java developers wear glasses?", Delivery: "Because they don't C#.", Safe: true, Lang: "en"},
		{ID: 33, Category: "Animal", Type: jokes.JokeSingle, Joke: "My dog ate my homework and gave it two paws up.", Safe: true, Lang: "en"},
		{ID: 44, Category: "Pun", Type: jokes.JokeSingle, Joke: "Velcro is a total rip-off.", Safe: true, Lang: "en"},
	}
}

func matchFor(j jokes.Joke, score float64) search.Match {
	return search.Match{ID: j.ID, Text: j.Text(), Score: score}
}

type askFixture struct {
	service    *Service
	store      *fakes.FakeEventStore
	searcher   *fakes.FakeSearcher
	model      *fakes.FakeLLM
	collection *jokes.Collection
}

func newAskFixture(t *testing.T, populate bool) askFixture {
	t.Helper()
	store := fakes.NewFakeEventStore()
	searcher := &fakes.FakeSearcher{}
	model := &fakes.FakeLLM{}
	clk := clock.NewStep(askStart, 10*time.Millisecond)
	recorder := analytics.NewRecorder(store, nil, logging.NewNoOpLogger(), clk)
	collection := jokes.NewCollection(filepath.Join(t.TempDir(), "jokes.json"), logging.NewNoOpLogger())
	if populate {
		require.NoError(t, collection.Replace(askSampleJokes()))
	}
	service := NewService(collection, searcher, model, recorder, clk, logging.NewNoOpLogger())
	return askFixture{service: service, store: store, searcher: searcher, model: model, collection: collection}
}

func queryEvents(t *testing.T, store *fakes.FakeEventStore) []analytics.QueryEvent {
	t.Helper()
	out := []analytics.QueryEvent{}
	for _, e := range store.OfType(analytics.EventTypeQuery) {
		require.NotNil(t, e.Query)
		out = append(out, *e.Query)
	}
	return out
}

func failureEvents(t *testing.T, store *fakes.FakeEventStore) []analytics.FailureEvent {
	t.Helper()
	out := []analytics.FailureEvent{}
	for _, e := range store.OfType(analytics.EventTypeFailure) {
		require.NotNil(t, e.Failure)
		out = append(out, *e.Failure)
	}
	return out
}

func TestService_Ask_WhenMessageBlank_ThenValidationErrorAndNothingRecorded(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)

	// Act
	_, err := fx.service.Ask(context.Background(), "   ")

	// Assert
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, fx.store.Events)
}

func TestService_Ask_WhenMessageHasNSFWKeyword_ThenBlocksWithoutSearching(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me a dirty joke")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgNSFWRefusal, result.Response)
	assert.Empty(t, result.Jokes)
	assert.Empty(t, fx.searcher.Queries)
	assert.Empty(t, fx.model.Calls)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseNSFWBlocked, queries[0].ResponseType)
	assert.Equal(t, uint(0), queries[0].JokesCount)
}

func TestService_Ask_WhenCollectionEmpty_ThenErrNoJokesAndErrorRecorded(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, false)

	// Act
	_, err := fx.service.Ask(context.Background(), "tell me a joke")

	// Assert
	require.ErrorIs(t, err, ErrNoJokes)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseError, queries[0].ResponseType)
	require.NotNil(t, queries[0].Error)
	assert.Contains(t, *queries[0].Error, "no jokes available")
}

func TestService_Ask_WhenRecorded_ThenQueryIDAndElapsedComeFromClock(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)

	// Act
	result, err := fx.service.Ask(context.Background(), "something explicit")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, askStart.UnixMilli(), result.QueryID)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, result.QueryID, queries[0].QueryID)
	assert.Equal(t, uint(10), queries[0].ResponseTimeMs)
}

func TestService_Ask_WhenCountQuestion_ThenCountsTopicFromModel(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	fx.model.Replies = []string{"Programming"}

	// Act
	result, err := fx.service.Ask(context.Background(), "how many programming jokes do you have")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "I have 2 programming jokes in my collection.", result.Response)
	require.Len(t, result.Jokes, 2)
	assert.Contains(t, fx.model.LastPrompt(), "how many programming jokes do you have")
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseSuccess, queries[0].ResponseType)
	assert.Equal(t, uint(2), queries[0].JokesCount)
}

func TestService_Ask_WhenCountModelFails_ThenFallsBackToKeywordExtraction(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	fx.model.Err = errors.New("model unavailable")

	// Act
	result, err := fx.service.Ask(context.Background(), "how many animal jokes do you have")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "I have 1 animal joke in my collection.", result.Response)
	require.Len(t, result.Jokes, 1)
	assert.Equal(t, 33, result.Jokes[0].ID)
	assert.Empty(t, failureEvents(t, fx.store))
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseSuccess, queries[0].ResponseType)
}

func TestService_Ask_WhenCountTopicHasNoMatches_ThenNoResults(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	fx.model.Replies = []string{"quantum"}

	// Act
	result, err := fx.service.Ask(context.Background(), "how many quantum jokes do you have")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "I have 0 quantum jokes in my collection.", result.Response)
	assert.Empty(t, result.Jokes)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseNoResults, queries[0].ResponseType)
}

func TestService_Ask_WhenExistenceQuestionMatches_ThenAnswersYesWithExamples(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	sample := askSampleJokes()
	fx.searcher.Matches = []search.Match{matchFor(sample[2], 0.91)}

	// Act
	result, err := fx.service.Ask(context.Background(), "do you have jokes about dogs?")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Yes, I found 1 joke matching your query. Here are some examples:", result.Response)
	require.Len(t, result.Jokes, 1)
	assert.Equal(t, 33, result.Jokes[0].ID)
	require.Len(t, fx.searcher.Ks, 1)
	assert.Equal(t, existenceTopK, fx.searcher.Ks[0])
	assert.Empty(t, fx.model.Calls)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseSuccess, queries[0].ResponseType)
	assert.Equal(t, uint(1), queries[0].JokesCount)
}

func TestService_Ask_WhenExistenceQuestionFindsNothing_ThenAnswersNo(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)

	// Act
	result, err := fx.service.Ask(context.Background(), "are there jokes about submarines?")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgNoneExist, result.Response)
	assert.Empty(t, result.Jokes)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseNoResults, queries[0].ResponseType)
}

func TestService_Ask_WhenExistenceSearchFails_ThenRecordsFailureAndError(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	fx.searcher.Err = errors.New("index unavailable")

	// Act
	result, err := fx.service.Ask(context.Background(), "is there any joke about trains?")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgSearchTrouble, result.Response)
	failures := failureEvents(t, fx.store)
	require.Len(t, failures, 1)
	assert.Equal(t, analytics.FailureSourceSearch, failures[0].Source)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseError, queries[0].ResponseType)
	require.NotNil(t, queries[0].Error)
	assert.Contains(t, *queries[0].Error, "index unavailable")
}

func TestService_Ask_WhenModelPicksNumbers_ThenReturnsThoseJokes(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	sample := askSampleJokes()
	fx.searcher.Matches = []search.Match{
		matchFor(sample[0], 0.9),
		matchFor(sample[1], 0.8),
		matchFor(sample[2], 0.7),
	}
	fx.model.Replies = []string{"1,3"}

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me something about programming")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgFound, result.Response)
	require.Len(t, result.Jokes, 2)
	assert.Equal(t, 11, result.Jokes[0].ID)
	assert.Equal(t, 33, result.Jokes[1].ID)
	assert.Contains(t, fx.model.LastPrompt(), "Joke 1: "+sample[0].Text())
	require.Len(t, fx.searcher.Ks, 1)
	assert.Equal(t, recommendTopK, fx.searcher.Ks[0])
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseSuccess, queries[0].ResponseType)
	assert.Equal(t, uint(2), queries[0].JokesCount)
}

func TestService_Ask_WhenModelSaysNone_ThenNoResults(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	fx.searcher.Matches = []search.Match{matchFor(askSampleJokes()[0], 0.4)}
	fx.model.Replies = []string{"None"}

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me something about llamas")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgNonePicked, result.Response)
	assert.Empty(t, result.Jokes)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseNoResults, queries[0].ResponseType)
}

func TestService_Ask_WhenModelReplyUnusable_ThenFallsBackToTopHit(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	sample := askSampleJokes()
	fx.searcher.Matches = []search.Match{matchFor(sample[3], 0.9), matchFor(sample[0], 0.8)}
	fx.model.Replies = []string{"the second one sounds funny"}

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me your best pun")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgFound, result.Response)
	require.Len(t, result.Jokes, 1)
	assert.Equal(t, 44, result.Jokes[0].ID)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseSuccess, queries[0].ResponseType)
	assert.Equal(t, uint(1), queries[0].JokesCount)
}

func TestService_Ask_WhenSearchFindsNothing_ThenNoResults(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me a joke about serverless databases")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgNoMatch, result.Response)
	assert.Empty(t, result.Jokes)
	assert.Empty(t, fx.model.Calls)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseNoResults, queries[0].ResponseType)
}

func TestService_Ask_WhenModelFails_ThenFallsBackToDirectSearchResults(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	sample := askSampleJokes()
	fx.searcher.Matches = []search.Match{
		matchFor(sample[0], 0.9),
		matchFor(sample[1], 0.8),
		matchFor(sample[2], 0.7),
		matchFor(sample[3], 0.6),
	}
	fx.model.Err = errors.New("model timed out")

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me a good joke")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgFound, result.Response)
	require.Len(t, result.Jokes, fallbackTopK)
	require.Len(t, fx.searcher.Ks, 2)
	assert.Equal(t, recommendTopK, fx.searcher.Ks[0])
	assert.Equal(t, fallbackTopK, fx.searcher.Ks[1])
	failures := failureEvents(t, fx.store)
	require.Len(t, failures, 1)
	assert.Equal(t, analytics.FailureSourceLLM, failures[0].Source)
	assert.Equal(t, "llm_selection_error", failures[0].ErrorType)
	require.NotNil(t, failures[0].FallbackUsed)
	assert.Equal(t, "search_direct", *failures[0].FallbackUsed)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseSuccess, queries[0].ResponseType)
	assert.Equal(t, uint(3), queries[0].JokesCount)
}

func TestService_Ask_WhenModelAndFallbackSearchFail_ThenConsolationRandomJoke(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	fx.searcher.Matches = []search.Match{matchFor(askSampleJokes()[0], 0.9)}
	fx.searcher.Err = errors.New("index went away")
	fx.searcher.FailFrom = 2
	fx.model.Err = errors.New("model timed out")

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me a good joke")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgProcessingTrouble, result.Response)
	require.Len(t, result.Jokes, 1)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseError, queries[0].ResponseType)
	assert.Equal(t, uint(0), queries[0].JokesCount)
	require.NotNil(t, queries[0].Error)
	assert.Contains(t, *queries[0].Error, "index went away")
}

func TestService_Ask_WhenFirstSearchFails_ThenRecordsSearchFailureAndConsoles(t *testing.T) {
	// Arrange
	fx := newAskFixture(t, true)
	fx.searcher.Err = errors.New("index unavailable")

	// Act
	result, err := fx.service.Ask(context.Background(), "tell me a good joke")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, msgProcessingTrouble, result.Response)
	require.Len(t, result.Jokes, 1)
	failures := failureEvents(t, fx.store)
	require.Len(t, failures, 1)
	assert.Equal(t, analytics.FailureSourceSearch, failures[0].Source)
	require.NotNil(t, failures[0].FallbackUsed)
	assert.Equal(t, "random_joke", *failures[0].FallbackUsed)
	queries := queryEvents(t, fx.store)
	require.Len(t, queries, 1)
	assert.Equal(t, analytics.ResponseError, queries[0].ResponseType)
}
