package services

import (
	"context"
	"errors"

	"eventix_backend/internal/logger"
	"eventix_backend/internal/models"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/services/dto"
	"eventix_backend/pkg/apperrors"
)

type ConfigurationService interface {
	// Get returns the value of an active key, or nil when there is none.
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, req *dto.SetConfigurationRequest, userID string) (*models.Configuration, error)
	GetByCategory(ctx context.Context, category models.ConfigCategory) ([]models.Configuration, error)
	GetPublic(ctx context.Context) (map[string]interface{}, error)
	GetAll(ctx context.Context) ([]models.Configuration, error)
	InitializeDefaults(ctx context.Context, userID string) error
}

type configurationService struct {
	configRepo repositories.ConfigurationRepository
}

func NewConfigurationService(configRepo repositories.ConfigurationRepository) ConfigurationService {
	return &configurationService{configRepo: configRepo}
}

func (s *configurationService) Get(ctx context.Context, key string) (interface{}, error) {
	cfg, err := s.configRepo.FindActiveByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrConfigurationNotFound) {
			return nil, nil
		}
		return nil, apperrors.DatabaseError(err)
	}
	return cfg.Value, nil
}

func (s *configurationService) Set(ctx context.Context, key string, req *dto.SetConfigurationRequest, userID string) (*models.Configuration, error) {
	if key == "" {
		return nil, fieldError("key", "This field is required")
	}
	cfg, err := s.configRepo.Upsert(ctx, &models.Configuration{
		Key:         key,
		Value:       req.Value,
		Category:    req.Category,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		CreatedBy:   userID,
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	logger.CtxInfo(ctx, "Configuration updated", "key", key, "category", req.Category)
	return cfg, nil
}

func (s *configurationService) GetByCategory(ctx context.Context, category models.ConfigCategory) ([]models.Configuration, error) {
	if !category.IsValid() {
		return nil, fieldError("category", "Must be one of: payment, email, notification, system, ui, security")
	}
	cfgs, err := s.configRepo.FindByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return cfgs, nil
}

func (s *configurationService) GetPublic(ctx context.Context) (map[string]interface{}, error) {
	cfgs, err := s.configRepo.FindPublic(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	out := make(map[string]interface{}, len(cfgs))
	for _, c := range cfgs {
		out[c.Key] = c.Value
	}
	return out, nil
}

func (s *configurationService) GetAll(ctx context.Context) ([]models.Configuration, error) {
	cfgs, err := s.configRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return cfgs, nil
}

type defaultConfiguration struct {
	key string
	req dto.SetConfigurationRequest
}

func defaultConfigurations() []defaultConfiguration {
	return []defaultConfiguration{
		{
			key: "payment_methods",
			req: dto.SetConfigurationRequest{
				Value: map[string]interface{}{
					"stripe": map[string]interface{}{"enabled": true, "publishable_key": ""},
					"paypal": map[string]interface{}{"enabled": false, "client_id": ""},
				},
				Category:    models.ConfigCategoryPayment,
				Description: "Available payment methods",
			},
		},
		{
			key: "email_templates",
			req: dto.SetConfigurationRequest{
				Value: map[string]interface{}{
					"ticket_confirmation": map[string]interface{}{
						"subject":  "Your ticket confirmation",
						"template": "ticket_confirmation.html",
					},
					"event_reminder": map[string]interface{}{
						"subject":  "Event reminder",
						"template": "event_reminder.html",
					},
				},
				Category:    models.ConfigCategoryEmail,
				Description: "Email templates",
			},
		},
		{
			key: "site_settings",
			req: dto.SetConfigurationRequest{
				Value: map[string]interface{}{
					"site_name":                  "EvenTix",
					"support_email":              "support@eventix.com",
					"max_tickets_per_user":       10,
					"ticket_reservation_timeout": 900,
				},
				Category:    models.ConfigCategorySystem,
				Description: "General site settings",
				IsPublic:    true,
			},
		},
	}
}

// InitializeDefaults seeds the built-in settings. Keys that already exist
// keep their current value.
func (s *configurationService) InitializeDefaults(ctx context.Context, userID string) error {
	for _, d := range defaultConfigurations() {
		exists, err := s.configRepo.Exists(ctx, d.key)
		if err != nil {
			return apperrors.DatabaseError(err)
		}
		if exists {
			continue
		}
		req := d.req
		if _, err := s.Set(ctx, d.key, &req, userID); err != nil {
			return err
		}
	}
	return nil
}
