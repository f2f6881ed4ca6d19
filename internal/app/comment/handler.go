package comment

import (
	"net/http"

	"backend/internal/apperr"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Create(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Create comment
// @Description Post a comment with a stance; support and oppose stances bump the topic tallies
// @Tags Comment
// @Accept json
// @Produce json
// @Param request body CreateCommentRequest true "Comment payload"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/comments [post]
func (h *handler) Create(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "topicId and content are required"})
		return
	}

	_, err := h.service.Create(c.Request.Context(), middleware.UserID(c), c.ClientIP(), &req)
	if err != nil {
		if appErr, ok := apperr.From(err); ok {
			if appErr.Kind == apperr.KindDependency {
				h.logger.Errorw("Comment creation failed", "error", err)
			}
			c.JSON(appErr.HTTPStatus(), appErr.Payload())
			return
		}
		h.logger.Errorw("Comment creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create comment"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
