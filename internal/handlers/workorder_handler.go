package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// WorkOrderHandler handles work order CRUD HTTP requests
type WorkOrderHandler struct {
	workOrderRepository    repositories.WorkOrderRepository
	notificationRepository repositories.NotificationRepository
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(woRepo repositories.WorkOrderRepository, notifRepo repositories.NotificationRepository) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderRepository:    woRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterWorkOrderRoutes registers work order routes; deletion is gated
// by the supplied role middleware.
func (h *WorkOrderHandler) RegisterWorkOrderRoutes(g *echo.Group, deleteGuard echo.MiddlewareFunc) {
	g.GET("/workorders", h.ListWorkOrders)
	g.POST("/workorders", h.CreateWorkOrder)
	g.GET("/workorders/:id", h.GetWorkOrder)
	g.PUT("/workorders/:id", h.UpdateWorkOrder)
	g.DELETE("/workorders/:id", h.DeleteWorkOrder, deleteGuard)
}

// ListWorkOrders lists work orders visible to the caller: entreprenører
// see their firma's orders, opgaveansvarlige the orders naming them, and
// drift/admin see everything.
func (h *WorkOrderHandler) ListWorkOrders(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var filter repositories.WorkOrderFilter
	if statusStr := c.QueryParam("status"); statusStr != "" {
		status := models.WorkOrderStatus(statusStr)
		if !status.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter: "+statusStr)
		}
		filter.Status = &status
	}

	switch claims.Role {
	case models.RoleEntreprenor:
		filter.Firma = claims.Firma
		filter.UserID = claims.UserID
	case models.RoleOpgaveansvarlig:
		filter.UserID = claims.UserID
	}

	orders, err := h.workOrderRepository.FindByFirmaOrUser(filter)
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "work_orders": orders})
}

// CreateWorkOrder creates a work order in planning status and notifies the
// named parties that a new PTW exists.
func (h *WorkOrderHandler) CreateWorkOrder(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateWorkOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	wo := &models.WorkOrder{
		Number:               req.Number,
		Title:                req.Title,
		Description:          req.Description,
		Location:             req.Location,
		Status:               models.StatusPlanning,
		EntreprenorFirma:     req.EntreprenorFirma,
		JobansvarligID:       req.JobansvarligID,
		EntreprenorKontaktID: req.EntreprenorKontaktID,
		StartDate:            parseDate(req.StartDate),
		EndDate:              parseDate(req.EndDate),
	}

	if err := h.workOrderRepository.Create(wo); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict,
				fmt.Sprintf("Work order number %q already exists", req.Number))
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	h.notifyNewWorkOrder(c, wo, claims.UserID)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "work_order": wo})
}

// GetWorkOrder returns one work order with its approval map
func (h *WorkOrderHandler) GetWorkOrder(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	wo, err := h.workOrderRepository.Get(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Work order not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"work_order": wo,
		"approvals":  wo.Approvals(),
	})
}

// UpdateWorkOrder applies an explicit edit. Status changes, including
// completing an order, happen here and only here; the approval engine
// never walks a status backwards or forwards past active.
func (h *WorkOrderHandler) UpdateWorkOrder(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req models.UpdateWorkOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	wo, err := h.workOrderRepository.Get(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Work order not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if req.Title != nil {
		wo.Title = *req.Title
	}
	if req.Description != nil {
		wo.Description = *req.Description
	}
	if req.Location != nil {
		wo.Location = *req.Location
	}
	if req.Status != nil {
		wo.Status = models.WorkOrderStatus(*req.Status)
	}
	if req.EntreprenorFirma != nil {
		wo.EntreprenorFirma = *req.EntreprenorFirma
	}
	if req.JobansvarligID != nil {
		wo.JobansvarligID = req.JobansvarligID
	}
	if req.EntreprenorKontaktID != nil {
		wo.EntreprenorKontaktID = req.EntreprenorKontaktID
	}
	if req.StartDate != nil {
		wo.StartDate = parseDate(req.StartDate)
	}
	if req.EndDate != nil {
		wo.EndDate = parseDate(req.EndDate)
	}

	if err := h.workOrderRepository.Save(wo); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "work_order": wo})
}

// DeleteWorkOrder removes a work order
func (h *WorkOrderHandler) DeleteWorkOrder(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.workOrderRepository.Delete(id); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *WorkOrderHandler) notifyNewWorkOrder(c echo.Context, wo *models.WorkOrder, actorUserID uint) {
	if h.notificationRepository == nil {
		return
	}

	recipients := make(map[uint]struct{})
	if wo.JobansvarligID != nil {
		recipients[*wo.JobansvarligID] = struct{}{}
	}
	if wo.EntreprenorKontaktID != nil {
		recipients[*wo.EntreprenorKontaktID] = struct{}{}
	}
	delete(recipients, actorUserID)

	for userID := range recipients {
		notif := &models.Notification{
			UserID:  userID,
			Type:    models.NotificationNewPTW,
			Title:   fmt.Sprintf("Ny arbejdstilladelse: %s", wo.Number),
			Message: wo.Title,
			Link:    fmt.Sprintf("/workorders/%d", wo.ID),
		}
		if err := h.notificationRepository.CreateNotification(notif); err != nil {
			c.Logger().Errorf("notify user %d about new work order %s: %v", userID, wo.Number, err)
		}
	}
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid work order ID")
	}
	return uint(id), nil
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(models.DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
