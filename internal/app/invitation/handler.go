package invitation

import (
	"net/http"

	"backend/internal/apperr"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Generate(c *gin.Context)
	Validate(c *gin.Context)
	ListMine(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Generate invitation code
// @Description Mint a new invitation code against the caller's quota
// @Tags Invitation
// @Produce json
// @Success 200 {object} GenerateResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/invitations/generate [post]
func (h *handler) Generate(c *gin.Context) {
	resp, err := h.service.Generate(middleware.UserID(c))
	if err != nil {
		h.respondError(c, err, "Failed to generate invitation code")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Validate invitation code
// @Description Side-effect-free check used for live registration-form feedback
// @Tags Invitation
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Code to validate"
// @Success 200 {object} ValidateResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/invitations/validate [post]
func (h *handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "code is required"})
		return
	}

	resp, err := h.service.Validate(req.Code)
	if err != nil {
		h.respondError(c, err, "Failed to validate invitation code")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List own invitation codes
// @Description List all codes issued by the authenticated user
// @Tags Invitation
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/invitations/my-codes [get]
func (h *handler) ListMine(c *gin.Context) {
	codes, err := h.service.ListFor(middleware.UserID(c))
	if err != nil {
		h.respondError(c, err, "Failed to list invitation codes")
		return
	}
	if codes == nil {
		codes = []CodeInfo{}
	}
	c.JSON(http.StatusOK, ListResponse{Codes: codes})
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
