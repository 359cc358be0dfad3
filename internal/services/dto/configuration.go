package dto

import "eventix_backend/internal/models"

type SetConfigurationRequest struct {
	Value       interface{}           `json:"value" validate:"required"`
	Category    models.ConfigCategory `json:"category" validate:"required,is-config-category"`
	Description string                `json:"description" validate:"omitempty,max=500"`
	IsPublic    bool                  `json:"is_public"`
}
