package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/logging"
)

func newCatalog(t *testing.T, dataset []jokes.Joke) *jokes.Collection {
	t.Helper()
	collection := jokes.NewCollection(filepath.Join(t.TempDir(), "jokes.json"), logging.NewNoOpLogger())
	if len(dataset) > 0 {
		require.NoError(t, collection.Replace(dataset))
	}
	return collection
}

func TestRandomJoke_EmptyCollection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewJokesHandler(logging.NewNoOpLogger(), newCatalog(t, nil))
	r := gin.New()
	r.GET("/api/v1/joke", h.RandomJoke)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/joke", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no jokes available")
}

func TestRandomJoke_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dataset := []jokes.Joke{
		{ID: 7, Category: "Pun", Type: jokes.JokeSingle, Joke: "Velcro is a total rip-off.", Safe: true, Lang: "en"},
	}
	h := NewJokesHandler(logging.NewNoOpLogger(), newCatalog(t, dataset))
	r := gin.New()
	r.GET("/api/v1/joke", h.RandomJoke)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/joke", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"id\":7")
	assert.Contains(t, w.Body.String(), "Velcro is a total rip-off.")
}

func TestListJokes_ReturnsCollectionWithCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dataset := []jokes.Joke{
		{ID: 1, Category: "Programming", Type: jokes.JokeSingle, Joke: "A SQL query walks into a bar and joins two tables.", Safe: true, Lang: "en"},
		{ID: 2, Category: "Programming", Type: jokes.JokeTwoPart, Setup: "Why do Java developers wear glasses?", Delivery: "Because they don't C#.", Safe: true, Lang: "en"},
	}
	h := NewJokesHandler(logging.NewNoOpLogger(), newCatalog(t, dataset))
	r := gin.New()
	r.GET("/api/v1/jokes", h.ListJokes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jokes", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"count\":2")
	assert.Contains(t, w.Body.String(), "\"id\":1")
	assert.Contains(t, w.Body.String(), "\"id\":2")
}
