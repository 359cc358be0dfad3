package dto

import (
	"encoding/json"
	"time"

	"eventix_backend/internal/models"
)

type UserResponse struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone,omitempty"`
	Status      models.UserStatus `json:"status"`
	Roles       []string          `json:"roles"`
	Preferences json.RawMessage   `json:"preferences,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewUserResponse(u *models.User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Status:    u.Status,
		Roles:     u.RoleNames(),
		CreatedAt: u.CreatedAt,
	}
	if len(u.Preferences) > 0 {
		resp.Preferences = json.RawMessage(u.Preferences)
	}
	return resp
}

type UpdateProfileRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=2,max=100"`
	Phone       *string                `json:"phone" validate:"omitempty,max=30"`
	Preferences map[string]interface{} `json:"preferences"`
}

type UserListQuery struct {
	Status models.UserStatus `form:"status"`
	Role   models.UserRole   `form:"role" validate:"omitempty,is-user-role"`
	Search string            `form:"search"`
	Page   int               `form:"page" validate:"omitempty,min=1"`
	Limit  int               `form:"limit" validate:"omitempty,min=1"`
}
