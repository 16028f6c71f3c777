package handlers

import (
	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/labstack/echo/v4"
)

// getClaimsFromContext returns the actor claims set by the JWT middleware,
// or nil when unauthenticated.
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

func getUserIDFromContext(c echo.Context) uint {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return 0
	}
	return claims.UserID
}
