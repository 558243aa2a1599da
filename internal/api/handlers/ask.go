package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/api/response"
	"github.com/punchlinehq/punchline/internal/ask"
	"github.com/punchlinehq/punchline/internal/logging"
)

// Asker runs the query flow for one user message.
type Asker interface {
	Ask(ctx context.Context, message string) (ask.Result, error)
}

// AskHandler handles user joke requests.
type AskHandler struct {
	logger  logging.Logger
	service Asker
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(logger logging.Logger, service Asker) *AskHandler {
	return &AskHandler{
		logger:  logger.With(zap.String("handler", "ask")),
		service: service,
	}
}

// AskRequest represents a user joke request.
type AskRequest struct {
	Message string `json:"message" example:"tell me a programming joke"`
} // @name AskRequest

// Ask godoc
// @Summary Ask for jokes
// @Description Answers a free-form joke request. Counts, existence questions, and recommendations are all supported.
// @Tags Ask
// @Accept json
// @Produce json
// @Param request body AskRequest true "User message"
// @Success 200 {object} ask.Result
// @Failure 400 {object} response.ErrorResponse "Empty or malformed message"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/ask [post]
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid ask request",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Ask(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case ask.IsValidationError(err):
			response.BadRequest(c, err.Error(), nil)
		case errors.Is(err, ask.ErrNoJokes):
			response.InternalServerError(c, err.Error())
		default:
			h.logger.Error("ask failed",
				zap.Error(err),
				zap.String("request_id", response.GetRequestID(c)),
			)
			response.InternalServerError(c, "internal server error")
		}
		return
	}

	response.OK(c, result)
}
