package auth

import (
	"net/http"

	"backend/internal/apperr"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)
	RegistrationStatus(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Register
// @Description Create an account; outside the early-access window a valid invitation code is required
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/auth/register [post]
func (h *handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username, email and password are required"})
		return
	}

	if _, err := h.service.Register(c.Request.Context(), &req); err != nil {
		h.respondError(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusCreated, RegisterResponse{Success: true, Message: "registration successful"})
}

// @Summary Login
// @Description Verify credentials and issue a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and password are required"})
		return
	}

	token, profile, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if appErr, ok := apperr.From(err); ok && appErr.Code == "InvalidCredentials" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid username or password"})
			return
		}
		h.respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Success: true, Token: token, User: profile})
}

// @Summary Current user
// @Description Return the authenticated user's profile with the derived level
// @Tags Auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/auth/me [get]
func (h *handler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err, "Profile fetch failed")
		return
	}
	c.JSON(http.StatusOK, MeResponse{User: profile})
}

// @Summary Registration status
// @Description Report whether an invitation code is currently required and how many early-access slots remain
// @Tags Auth
// @Produce json
// @Success 200 {object} RegistrationStatus
// @Router /api/auth/registration-status [get]
func (h *handler) RegistrationStatus(c *gin.Context) {
	status, err := h.service.RegistrationStatus(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Registration status failed")
		return
	}
	c.JSON(http.StatusOK, status)
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
