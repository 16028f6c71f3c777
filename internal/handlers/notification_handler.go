package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles the per-user inbox HTTP surface
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.POST("/notifications", h.Mutate)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
}

// GetNotifications serves the inbox. action=get (the default) returns the
// unread list plus the unread count; action=all returns the full paginated
// history.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	action := c.QueryParam("action")
	if action == "" {
		action = "get"
	}

	switch action {
	case "get":
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		if limit < 1 || limit > 50 {
			limit = 20
		}

		notifications, err := h.notificationRepository.GetUnread(currentUserID, limit)
		if err != nil {
			c.Logger().Error(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "server error")
		}
		unreadCount, err := h.notificationRepository.GetUnreadCount(currentUserID)
		if err != nil {
			c.Logger().Error(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "server error")
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success":       true,
			"notifications": notifications,
			"unread_count":  unreadCount,
		})

	case "all":
		page, _ := strconv.Atoi(c.QueryParam("page"))
		if page < 1 {
			page = 1
		}
		const pageSize = 20

		notifications, total, err := h.notificationRepository.GetByUserID(currentUserID, page, pageSize)
		if err != nil {
			c.Logger().Error(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "server error")
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success":       true,
			"notifications": notifications,
			"meta": echo.Map{
				"currentPage": page,
				"totalPages":  int(math.Ceil(float64(total) / float64(pageSize))),
				"totalItems":  total,
			},
		})

	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown action: "+action)
	}
}

type notificationMutateRequest struct {
	Action string `json:"action" validate:"required,oneof=mark_read mark_all_read delete"`
	ID     uint   `json:"id,omitempty"`
}

// Mutate applies a read/unread/delete transition. mark_read and delete on
// a row the caller does not own are silent no-ops: the response never
// reveals whether the row exists.
func (h *NotificationHandler) Mutate(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req notificationMutateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	var err error
	switch req.Action {
	case "mark_read":
		if req.ID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "id is required for mark_read")
		}
		err = h.notificationRepository.MarkAsRead(req.ID, currentUserID)
	case "mark_all_read":
		err = h.notificationRepository.MarkAllAsRead(currentUserID)
	case "delete":
		if req.ID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "id is required for delete")
		}
		err = h.notificationRepository.DeleteNotification(req.ID, currentUserID)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown action: "+req.Action)
	}

	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetUnreadCount is the cheap path for UI badges
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}
