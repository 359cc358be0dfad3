package app

import (
	"context"
	"errors"
	"fmt"

	"eventix_backend/internal/auth"
	"eventix_backend/internal/config"
	"eventix_backend/internal/logger"
	"eventix_backend/internal/models"
	"eventix_backend/internal/repositories"
)

// seedFirstAdmin creates the admin account from FIRST_ADMIN_EMAIL and
// FIRST_ADMIN_PASSWORD when it does not exist yet. It returns the admin's id,
// or "" when seeding is not configured.
func seedFirstAdmin(ctx context.Context, userRepo repositories.UserRepository, cfg *config.Config) (string, error) {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return "", nil
	}

	existing, err := userRepo.FindByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return existing.ID, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check for admin user: %w", err)
	}

	if err := auth.ValidatePassword(adminPassword); err != nil {
		return "", fmt.Errorf("admin password rejected: %w", err)
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin password: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)
	admin := &models.User{
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: hash,
		Status:       models.UserStatusActive,
	}
	if err := userRepo.Create(ctx, admin, models.UserRoleAdmin); err != nil {
		return "", fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail, "id", admin.ID)
	return admin.ID, nil
}
