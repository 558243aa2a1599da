package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/api/response"
	"github.com/punchlinehq/punchline/internal/logging"
)

// FeedbackSink records user feedback events.
type FeedbackSink interface {
	RecordFeedback(ctx context.Context, feedback analytics.FeedbackEvent) error
}

// FeedbackHandler handles user feedback submissions.
type FeedbackHandler struct {
	logger logging.Logger
	sink   FeedbackSink
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(logger logging.Logger, sink FeedbackSink) *FeedbackHandler {
	return &FeedbackHandler{
		logger: logger.With(zap.String("handler", "feedback")),
		sink:   sink,
	}
}

// FeedbackRequest represents a feedback submission. The query id links the
// feedback to an earlier ask response; a stale or unknown id is accepted and
// stored as-is, it just will not join to a query in the analytics views.
type FeedbackRequest struct {
	QueryID int64   `json:"query_id" example:"1765704413000"`
	Rating  *int    `json:"rating" binding:"required" example:"4"`
	Comment *string `json:"comment" example:"that one landed"`
} // @name FeedbackRequest

// Feedback godoc
// @Summary Submit feedback on a joke response
// @Description Stores a 1..5 rating with an optional comment for an earlier query
// @Tags Feedback
// @Accept json
// @Produce json
// @Param feedback body FeedbackRequest true "Feedback"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse "Missing or out-of-range rating"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/feedback [post]
func (h *FeedbackHandler) Feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	if *req.Rating < 1 || *req.Rating > 5 {
		response.ValidationErrors(c, []response.ValidationError{
			{Field: "rating", Message: "must be between 1 and 5"},
		})
		return
	}

	err := h.sink.RecordFeedback(c.Request.Context(), analytics.FeedbackEvent{
		QueryID: req.QueryID,
		Rating:  *req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.logger.Error("feedback not recorded",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, "internal server error")
		return
	}

	h.logger.Info("feedback recorded",
		zap.Int64("query_id", req.QueryID),
		zap.Int("rating", *req.Rating),
		zap.String("request_id", response.GetRequestID(c)),
	)

	response.Created(c, gin.H{"query_id": req.QueryID}, "Thank you for your feedback!")
}
