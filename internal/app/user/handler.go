package user

import (
	"net/http"

	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	GetProfile(c *gin.Context)
	UploadAvatar(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Get user profile
// @Description Get a user's public profile with the current derived level
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} Profile
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id} [get]
func (h *handler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Summary Upload avatar
// @Description Upload an avatar image for the authenticated user
// @Tags User
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} AvatarResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/users/avatar [post]
func (h *handler) UploadAvatar(c *gin.Context) {
	userID := middleware.UserID(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "avatar file is required"})
		return
	}

	url, err := h.service.UploadAvatar(c.Request.Context(), userID, file)
	if err != nil {
		h.logger.Warnw("Avatar upload failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to upload avatar"})
		return
	}

	c.JSON(http.StatusOK, AvatarResponse{AvatarURL: url})
}
