package topic

import (
	"net/http"

	"backend/internal/apperr"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	StoreAnalysis(c *gin.Context)
	CastPollVote(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary List topics
// @Description List all topics with comments, poll options and per-user annotations
// @Tags Topic
// @Produce json
// @Param userId query string false "Current user ID for vote/favorite annotations"
// @Success 200 {array} TopicResponse
// @Router /api/topics [get]
func (h *handler) List(c *gin.Context) {
	topics, err := h.service.List(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.respondError(c, err, "Failed to list topics")
		return
	}
	c.JSON(http.StatusOK, topics)
}

// @Summary Create topic
// @Description Create a topic; rejected when the board gate fails (403) or the daily cap is hit (429)
// @Tags Topic
// @Accept json
// @Produce json
// @Param request body CreateTopicRequest true "Topic payload"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/topics [post]
func (h *handler) Create(c *gin.Context) {
	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title, description and category are required"})
		return
	}

	if _, err := h.service.Create(c.Request.Context(), middleware.UserID(c), &req); err != nil {
		h.respondError(c, err, "Failed to create topic")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// @Summary Store AI analysis
// @Description Persist the opaque veracity-analysis text produced by the external AI service
// @Tags Topic
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param request body AnalysisRequest true "Analysis text"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/topics/{id}/analysis [post]
func (h *handler) StoreAnalysis(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "analysis is required"})
		return
	}

	if err := h.service.StoreAnalysis(c.Param("id"), req.Analysis); err != nil {
		h.respondError(c, err, "Failed to store analysis")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// @Summary Vote on a poll
// @Description Cast or move the caller's poll vote; voting the same option again is a no-op
// @Tags Topic
// @Accept json
// @Produce json
// @Param request body PollVoteRequest true "Poll vote payload"
// @Success 200 {object} SuccessResponse
// @Router /api/topics/poll/vote [post]
func (h *handler) CastPollVote(c *gin.Context) {
	var req PollVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "topicId and optionId are required"})
		return
	}

	if err := h.service.CastPollVote(c.Request.Context(), middleware.UserID(c), &req); err != nil {
		h.respondError(c, err, "Poll vote failed")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *handler) respondError(c *gin.Context, err error, logMsg string) {
	if appErr, ok := apperr.From(err); ok {
		if appErr.Kind == apperr.KindDependency {
			h.logger.Errorw(logMsg, "error", err)
		}
		c.JSON(appErr.HTTPStatus(), appErr.Payload())
		return
	}
	h.logger.Errorw(logMsg, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
