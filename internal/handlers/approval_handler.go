package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/1711821-sketch/PTW-sub001/internal/approval"
	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ApprovalHandler handles daily approval submissions
type ApprovalHandler struct {
	engine *approval.Engine
}

func NewApprovalHandler(engine *approval.Engine) *ApprovalHandler {
	return &ApprovalHandler{engine: engine}
}

// RegisterApprovalRoutes registers approval routes
func (h *ApprovalHandler) RegisterApprovalRoutes(g *echo.Group) {
	g.POST("/approvals", h.Apply)
}

type applyApprovalRequest struct {
	WorkOrderID uint   `json:"work_order_id" validate:"required"`
	Role        string `json:"role" validate:"required"`
}

// Apply records today's approval for one role on one work order. Domain
// failures (unknown order, bad role, completed order) come back in the
// response body so the UI can render a precise message; only store
// failures surface as server errors.
func (h *ApprovalHandler) Apply(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req applyApprovalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	today := time.Now().Format(models.DateLayout)
	wo, err := h.engine.ApplyApproval(req.WorkOrderID, models.Role(req.Role), claims.UserID, today)
	if err != nil {
		switch {
		case errors.Is(err, approval.ErrNotFound):
			return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "work order not found"})
		case errors.Is(err, approval.ErrInvalidRole):
			return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "unknown approval role: " + req.Role})
		case errors.Is(err, approval.ErrTerminalState):
			return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "work order is completed and no longer accepts approvals"})
		case errors.Is(err, approval.ErrConflict):
			return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "work order was updated concurrently, please retry"})
		default:
			c.Logger().Error(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "server error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"status":    wo.Status,
		"approvals": wo.Approvals(),
	})
}
