package handlers

import (
	"net/http"

	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.GET("/users/options", h.GetOptions)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, user)
}

type userOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GetOptions serves the firma and jobansvarlig option lists the UI filter
// dropdowns need. Queried fresh per request; the tables are small.
func (h *UserHandler) GetOptions(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	firmaer, err := h.userRepository.ListFirmaer()
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	jobansvarlige, err := h.userRepository.GetUsersByRole(models.RoleOpgaveansvarlig)
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	options := make([]userOption, 0, len(jobansvarlige))
	for _, u := range jobansvarlige {
		options = append(options, userOption{ID: u.ID, Name: u.Name})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"firmaer":       firmaer,
		"jobansvarlige": options,
	})
}
