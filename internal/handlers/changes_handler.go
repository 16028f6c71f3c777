package handlers

import (
	"net/http"
	"time"

	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ChangesHandler serves the stateless polling endpoint clients use instead
// of a held-open connection: "what changed since timestamp T". The only
// state is the since parameter the client carries between polls.
type ChangesHandler struct {
	workOrderRepository    repositories.WorkOrderRepository
	notificationRepository repositories.NotificationRepository
}

func NewChangesHandler(woRepo repositories.WorkOrderRepository, notifRepo repositories.NotificationRepository) *ChangesHandler {
	return &ChangesHandler{
		workOrderRepository:    woRepo,
		notificationRepository: notifRepo,
	}
}

func (h *ChangesHandler) RegisterChangesRoutes(g *echo.Group) {
	g.GET("/changes", h.GetChanges)
}

// GetChanges returns work orders updated after ?since=<RFC3339> plus the
// caller's unread count, and the server time to use as the next cursor.
func (h *ChangesHandler) GetChanges(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	sinceStr := c.QueryParam("since")
	if sinceStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "since parameter is required")
	}
	since, err := time.Parse(time.RFC3339, sinceStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "since must be an RFC3339 timestamp")
	}

	now := time.Now()
	orders, err := h.workOrderRepository.FindUpdatedSince(since)
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
		"success":      true,
		"work_orders":  orders,
		"unread_count": unreadCount,
		"now":          now.UTC().Format(time.RFC3339),
	})
}
