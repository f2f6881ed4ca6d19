package favorite

import (
	"net/http"

	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Toggle(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Toggle favorite
// @Description Add or remove a topic from the caller's favorites
// @Tags Favorite
// @Accept json
// @Produce json
// @Param request body ToggleRequest true "Topic to toggle"
// @Success 200 {object} ToggleResponse
// @Router /api/favorite [post]
func (h *handler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "topicId is required"})
		return
	}

	isFavorite, err := h.service.Toggle(c.Request.Context(), middleware.UserID(c), req.TopicID)
	if err != nil {
		h.logger.Errorw("Favorite toggle failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "favorite toggle failed"})
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Success: true, IsFavorite: isFavorite})
}
