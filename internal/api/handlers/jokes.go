package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/api/response"
	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/logging"
)

// JokeCatalog is the slice of the joke collection the read-only routes need.
type JokeCatalog interface {
	All() []jokes.Joke
	Count() int
	Random() (jokes.Joke, bool)
}

// JokesHandler serves the raw joke collection.
type JokesHandler struct {
	logger  logging.Logger
	catalog JokeCatalog
}

// NewJokesHandler creates a new jokes handler.
func NewJokesHandler(logger logging.Logger, catalog JokeCatalog) *JokesHandler {
	return &JokesHandler{
		logger:  logger.With(zap.String("handler", "jokes")),
		catalog: catalog,
	}
}

// JokeListResponse represents the full joke collection.
type JokeListResponse struct {
	Jokes []jokes.Joke `json:"jokes"`
	Count int          `json:"count" example:"100"`
} // @name JokeListResponse

// RandomJoke godoc
// @Summary Get a random joke
// @Description Returns one uniformly random joke from the collection
// @Tags Jokes
// @Produce json
// @Success 200 {object} jokes.Joke
// @Failure 404 {object} response.ErrorResponse "Collection is empty"
// @Router /api/v1/joke [get]
func (h *JokesHandler) RandomJoke(c *gin.Context) {
	joke, ok := h.catalog.Random()
	if !ok {
		response.NotFound(c, "no jokes available")
		return
	}
	response.OK(c, joke)
}

// ListJokes godoc
// @Summary List all jokes
// @Description Returns the full joke collection with its size
// @Tags Jokes
// @Produce json
// @Success 200 {object} JokeListResponse
// @Router /api/v1/jokes [get]
func (h *JokesHandler) ListJokes(c *gin.Context) {
	response.OK(c, JokeListResponse{
		Jokes: h.catalog.All(),
		Count: h.catalog.Count(),
	})
}
