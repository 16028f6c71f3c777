package handlers

import (
	"net/http"
	"testing"

	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/labstack/echo/v4"
)

func TestSignupThenSignIn(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresUserRepository(db)
	h := NewAuthHandler(repo)
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Jens","email":"jens@site.dk","password":"hemmeligt1","role":"opgaveansvarlig"}`, nil)
	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", rec.Code)
	}
	if decodeBody(t, rec)["token"] == nil {
		t.Fatal("signup returned no token")
	}

	u, err := repo.GetUserByEmail("jens@site.dk")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.Approved {
		t.Error("new user must start unapproved")
	}

	c, rec = newJSONContext(t, e, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"jens@site.dk","password":"hemmeligt1"}`, nil)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if decodeBody(t, rec)["token"] == nil {
		t.Fatal("signin returned no token")
	}

	c, _ = newJSONContext(t, e, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"jens@site.dk","password":"forkertkode1"}`, nil)
	err = h.SignIn(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %v", err)
	}
}

func TestSignup_RejectsAdminRole(t *testing.T) {
	db := setupTestDB(t)
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db))
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Mallory","email":"mallory@site.dk","password":"langtkodeord1","role":"admin"}`, nil)
	err := h.Signup(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for admin self-signup, got %v", err)
	}
}
