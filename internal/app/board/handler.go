package board

import (
	"net/http"
	"time"

	"backend/internal/apperr"
	"backend/internal/app/user"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	CheckAccess(c *gin.Context)
	ListRequirements(c *gin.Context)
}

type handler struct {
	service  Service
	userRepo user.Repository
	userSvc  user.Service
	logger   *zap.SugaredLogger
}

func NewHandler(service Service, userRepo user.Repository, userSvc user.Service, logger *zap.Logger) Handler {
	return &handler{service: service, userRepo: userRepo, userSvc: userSvc, logger: logger.Sugar()}
}

// @Summary Check board access
// @Description Advisory pre-flight check of the caller's posting eligibility for a category
// @Tags Board
// @Accept json
// @Produce json
// @Param request body CheckAccessRequest true "Category to check"
// @Success 200 {object} AccessResult
// @Failure 400 {object} ErrorResponse
// @Router /api/boards/check-access [post]
func (h *handler) CheckAccess(c *gin.Context) {
	var req CheckAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "category is required"})
		return
	}

	u, err := h.userRepo.GetByID(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	// The advisory check must agree with topic admission, so the derived
	// tier is reconciled here exactly as it is on the posting path.
	u, err = h.userSvc.Reconcile(u, time.Now().UTC())
	if err != nil {
		h.logger.Errorw("Level reconciliation failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	result, err := h.service.CheckAccess(u, req.Category)
	if err != nil {
		if appErr, ok := apperr.From(err); ok {
			h.logger.Errorw("Board access check failed", "error", err)
			c.JSON(appErr.HTTPStatus(), appErr.Payload())
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary List board requirements
// @Description List all categories that carry posting requirements
// @Tags Board
// @Produce json
// @Success 200 {array} BoardRequirement
// @Router /api/boards/requirements [get]
func (h *handler) ListRequirements(c *gin.Context) {
	reqs, err := h.service.ListRequirements()
	if err != nil {
		h.logger.Errorw("Failed to list board requirements", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch board requirements"})
		return
	}
	c.JSON(http.StatusOK, reqs)
}
