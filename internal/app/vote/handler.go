package vote

import (
	"net/http"

	"backend/internal/apperr"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Cast(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Vote on a comment
// @Description Toggle or flip the caller's vote; upvotes gained or lost move the author's reputation
// @Tags Vote
// @Accept json
// @Produce json
// @Param request body CastVoteRequest true "Vote payload"
// @Success 200 {object} CastVoteResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/vote [post]
func (h *handler) Cast(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "commentId and type (up/down) are required"})
		return
	}

	resp, err := h.service.Cast(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		if appErr, ok := apperr.From(err); ok {
			if appErr.Kind == apperr.KindDependency {
				h.logger.Errorw("Vote failed", "error", err)
			}
			c.JSON(appErr.HTTPStatus(), appErr.Payload())
			return
		}
		h.logger.Errorw("Vote failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "vote failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
