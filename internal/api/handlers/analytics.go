package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/api/response"
	"github.com/punchlinehq/punchline/internal/logging"
)

// StatsSource computes aggregate views over the analytics log.
type StatsSource interface {
	Stats() (analytics.Stats, error)
	FailedQueries(limit int) ([]analytics.TimestampedQuery, error)
	LowSatisfaction(threshold, limit int) ([]analytics.LowSatisfactionEntry, error)
}

// AnalyticsHandler serves aggregate views over recorded events.
type AnalyticsHandler struct {
	logger logging.Logger
	source StatsSource
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(logger logging.Logger, source StatsSource) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger: logger.With(zap.String("handler", "analytics")),
		source: source,
	}
}

// FailedQueriesResponse lists recent failed queries, newest first.
type FailedQueriesResponse struct {
	FailedQueries []analytics.TimestampedQuery `json:"failed_queries"`
	Count         int                          `json:"count" example:"2"`
} // @name FailedQueriesResponse

// LowSatisfactionResponse lists recent low ratings joined with their queries.
type LowSatisfactionResponse struct {
	Feedback  []analytics.LowSatisfactionEntry `json:"feedback"`
	Count     int                              `json:"count" example:"2"`
	Threshold int                              `json:"threshold" example:"2"`
} // @name LowSatisfactionResponse

type listQuery struct {
	Limit     int `form:"limit"`
	Threshold int `form:"threshold"`
}

// Stats godoc
// @Summary Get usage statistics
// @Description Returns counts, rates, and averages over all recorded events
// @Tags Analytics
// @Produce json
// @Success 200 {object} analytics.Stats
// @Failure 500 {object} response.ErrorResponse "Store unreadable or corrupt"
// @Router /api/v1/analytics/stats [get]
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.source.Stats()
	if h.handleStoreError(c, err, "compute stats") {
		return
	}
	response.OK(c, stats)
}

// FailedQueries godoc
// @Summary List recent failed queries
// @Description Returns queries that ended in an error or found nothing, newest first
// @Tags Analytics
// @Produce json
// @Param limit query int false "Maximum entries" default(20) minimum(1) maximum(100)
// @Success 200 {object} FailedQueriesResponse
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Store unreadable or corrupt"
// @Router /api/v1/analytics/failed-queries [get]
func (h *AnalyticsHandler) FailedQueries(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}

	failed, err := h.source.FailedQueries(query.Limit)
	if h.handleStoreError(c, err, "list failed queries") {
		return
	}

	response.OK(c, FailedQueriesResponse{
		FailedQueries: failed,
		Count:         len(failed),
	})
}

// LowSatisfaction godoc
// @Summary List recent low-satisfaction feedback
// @Description Returns feedback at or below the rating threshold, joined with the query each one rated
// @Tags Analytics
// @Produce json
// @Param threshold query int false "Highest rating still included" default(2) minimum(1) maximum(5)
// @Param limit query int false "Maximum entries" default(20) minimum(1) maximum(100)
// @Success 200 {object} LowSatisfactionResponse
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Store unreadable or corrupt"
// @Router /api/v1/analytics/low-satisfaction [get]
func (h *AnalyticsHandler) LowSatisfaction(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}
	if query.Threshold <= 0 {
		query.Threshold = analytics.DefaultLowSatisfactionThreshold
	}

	feedback, err := h.source.LowSatisfaction(query.Threshold, query.Limit)
	if h.handleStoreError(c, err, "list low-satisfaction feedback") {
		return
	}

	response.OK(c, LowSatisfactionResponse{
		Feedback:  feedback,
		Count:     len(feedback),
		Threshold: query.Threshold,
	})
}

func (h *AnalyticsHandler) handleStoreError(c *gin.Context, err error, operation string) bool {
	if err == nil {
		return false
	}

	h.logger.Error(operation+" failed",
		zap.Error(err),
		zap.String("request_id", response.GetRequestID(c)),
	)
	if errors.Is(err, analytics.ErrCorruptStore) {
		response.InternalServerError(c, "analytics store is corrupt")
	} else {
		response.InternalServerError(c, "internal server error")
	}
	return true
}
