package models

import (
	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:100"`
	Email    string `json:"email" gorm:"size:200;uniqueIndex"`
	Password string `json:"-"` // bcrypt hash, never serialized
	Role     Role   `json:"role" gorm:"type:varchar(20);index"`
	Firma    string `json:"firma" gorm:"size:100;index"`
	// Approved gates participation: only approved drift users are part of
	// the drift reminder broadcast.
	Approved bool `json:"approved" gorm:"default:false;index"`
}

// SignupRequest covers open self-registration. Admin accounts are not
// self-service; they are provisioned directly in the users table.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=opgaveansvarlig drift entreprenor"`
	Firma    string `json:"firma,omitempty" validate:"omitempty,max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// The approval engine trusts these as the actor's identity.
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Firma  string `json:"firma,omitempty"`
	jwt.RegisteredClaims
}
