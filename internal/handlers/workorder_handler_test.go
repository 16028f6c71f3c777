package handlers

import (
	"net/http"
	"testing"

	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/labstack/echo/v4"
)

func TestCreateWorkOrder_DuplicateNumberConflicts(t *testing.T) {
	db := setupTestDB(t)
	h := NewWorkOrderHandler(
		repositories.NewPostgresWorkOrderRepository(db),
		repositories.NewPostgresNotificationRepository(db),
	)
	e := echo.New()
	claims := &models.JwtCustomClaims{UserID: 1, Role: models.RoleOpgaveansvarlig}

	body := `{"number":"PTW-30","title":"Tagarbejde"}`
	c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/workorders", body, claims)
	if err := h.CreateWorkOrder(c); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201", rec.Code)
	}

	c, _ = newJSONContext(t, e, http.MethodPost, "/api/v1/workorders", body, claims)
	err := h.CreateWorkOrder(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate number, got %v", err)
	}
}
