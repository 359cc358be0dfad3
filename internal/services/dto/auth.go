package dto

import (
	"time"

	"eventix_backend/internal/models"
)

// RegisterRequest - self sign-up; only customer and organizer may be chosen.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Phone    string          `json:"phone" validate:"omitempty,max=30"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=customer organizer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}
