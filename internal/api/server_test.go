package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/ask"
	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/internal/testutil/fakes"
	"github.com/punchlinehq/punchline/pkg/clock"
	"github.com/punchlinehq/punchline/pkg/config"
)

type stubAsker struct {
	result ask.Result
	err    error
}

func (s *stubAsker) Ask(ctx context.Context, message string) (ask.Result, error) {
	return s.result, s.err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := fakes.NewFakeEventStore()
	recorder := analytics.NewRecorder(store, nil, logging.NewNoOpLogger(),
		clock.NewFixed(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)))
	collection := jokes.NewCollection(filepath.Join(t.TempDir(), "jokes.json"), logging.NewNoOpLogger())

	cfg := config.App{
		APIPort:     "8080",
		Environment: "development",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
	}
	return NewServer(cfg, logging.NewNoOpLogger(), Deps{
		Catalog:  collection,
		Ask:      &stubAsker{result: ask.Result{Response: "Here's what I found for you:", Jokes: []jokes.Joke{}, QueryID: 1}},
		Feedback: recorder,
		Stats:    analytics.NewAggregator(store),
	})
}

func get(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServer_WhenRootRequested_ThenServesChatPage(t *testing.T) {
	// Arrange
	server := newTestServer(t)

	// Act
	w := get(t, server, "/")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Punchline")
}

func TestServer_WhenDashboardRequested_ThenServesDashboardPage(t *testing.T) {
	// Arrange
	server := newTestServer(t)

	// Act
	w := get(t, server, "/admin/dashboard")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Punchline Analytics")
}

func TestServer_WhenHealthRequested_ThenOK(t *testing.T) {
	// Arrange
	server := newTestServer(t)

	// Act
	w := get(t, server, "/health")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"status\":\"ok\"")
}

func TestServer_WhenAnyRouteResponds_ThenRequestIDHeaderIsSet(t *testing.T) {
	// Arrange
	server := newTestServer(t)

	// Act
	w := get(t, server, "/health")

	// Assert
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServer_WhenAskPosted_ThenRouteIsWired(t *testing.T) {
	// Arrange
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewBufferString(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Here's what I found for you:")
}

func TestServer_WhenCollectionEmpty_ThenRandomJokeIs404(t *testing.T) {
	// Arrange
	server := newTestServer(t)

	// Act
	w := get(t, server, "/api/v1/joke")

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_WhenAnalyticsRoutesRequested_ThenAllWired(t *testing.T) {
	// Arrange
	server := newTestServer(t)

	// Act & Assert
	for _, path := range []string{
		"/api/v1/analytics/stats",
		"/api/v1/analytics/failed-queries",
		"/api/v1/analytics/low-satisfaction",
	} {
		w := get(t, server, path)
		require.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestServer_WhenShutdownHooksRegistered_ThenOrderPreserved(t *testing.T) {
	// Arrange
	server := newTestServer(t)
	order := []string{}
	server.OnShutdown(func() { order = append(order, "first") })
	server.OnShutdown(func() { order = append(order, "second") })

	// Act
	for _, hook := range server.shutdownHooks {
		hook()
	}

	// Assert
	assert.Equal(t, []string{"first", "second"}, order)
}
