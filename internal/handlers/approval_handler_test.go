package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/1711821-sketch/PTW-sub001/internal/approval"
	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.WorkOrder{}, &models.Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// newJSONContext builds an echo context carrying the given body and actor
// claims, as the JWT middleware would have left them.
func newJSONContext(t *testing.T, e *echo.Echo, method, path, body string, claims *models.JwtCustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestApprovalHandler_Apply(t *testing.T) {
	db := setupTestDB(t)
	woRepo := repositories.NewPostgresWorkOrderRepository(db)
	notifRepo := repositories.NewPostgresNotificationRepository(db)
	engine := approval.NewEngine(woRepo, notifRepo)
	h := NewApprovalHandler(engine)
	e := echo.New()

	wo := &models.WorkOrder{Number: "PTW-20", Title: "Test", Status: models.StatusPlanning}
	if err := woRepo.Create(wo); err != nil {
		t.Fatalf("create work order: %v", err)
	}

	claims := &models.JwtCustomClaims{UserID: 1, Role: models.RoleDrift}
	c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/approvals",
		`{"work_order_id":1,"role":"drift"}`, claims)

	if err := h.Apply(c); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v, body %v", body["success"], body)
	}
	if body["status"] != "active" {
		t.Errorf("status = %v, want active", body["status"])
	}
	approvals, ok := body["approvals"].(map[string]interface{})
	if !ok {
		t.Fatalf("approvals missing: %v", body)
	}
	today := time.Now().Format(models.DateLayout)
	if approvals["drift"] != today {
		t.Errorf("approvals[drift] = %v, want %s", approvals["drift"], today)
	}
}

func TestApprovalHandler_DomainErrorsInBody(t *testing.T) {
	db := setupTestDB(t)
	woRepo := repositories.NewPostgresWorkOrderRepository(db)
	engine := approval.NewEngine(woRepo, repositories.NewPostgresNotificationRepository(db))
	h := NewApprovalHandler(engine)
	e := echo.New()

	done := &models.WorkOrder{Number: "PTW-21", Title: "Done", Status: models.StatusCompleted}
	if err := woRepo.Create(done); err != nil {
		t.Fatalf("create work order: %v", err)
	}

	claims := &models.JwtCustomClaims{UserID: 1, Role: models.RoleDrift}
	tests := []struct {
		name string
		body string
	}{
		{"unknown work order", `{"work_order_id":999,"role":"drift"}`},
		{"invalid role", `{"work_order_id":1,"role":"supervisor"}`},
		{"completed order", `{"work_order_id":1,"role":"drift"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/approvals", tt.body, claims)
			if err := h.Apply(c); err != nil {
				t.Fatalf("Apply returned transport error: %v", err)
			}
			// Domain failures are part of the normal result, not HTTP errors.
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
			if body["error"] == nil || body["error"] == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestApprovalHandler_Unauthenticated(t *testing.T) {
	db := setupTestDB(t)
	engine := approval.NewEngine(
		repositories.NewPostgresWorkOrderRepository(db),
		repositories.NewPostgresNotificationRepository(db),
	)
	h := NewApprovalHandler(engine)
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPost, "/api/v1/approvals",
		`{"work_order_id":1,"role":"drift"}`, nil)

	err := h.Apply(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
