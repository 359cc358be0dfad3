package services

import (
	"context"
	"errors"
	"strings"

	"eventix_backend/internal/auth"
	"eventix_backend/internal/logger"
	"eventix_backend/internal/models"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/services/dto"
	"eventix_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Authenticate resolves a bearer token to an active user with roles.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register - self sign-up. New accounts are active and get the customer
// role unless organizer was requested.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, fieldError("password", err.Error())
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleCustomer
	}
	if role != models.UserRoleCustomer && role != models.UserRoleOrganizer {
		return nil, fieldError("role", "Must be one of: customer, organizer")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		PasswordHash: hash,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user, role); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", role)
	return s.issue(user)
}

// Login - email/password authentication
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, apperrors.ErrUserInactive
	}

	return s.issue(user)
}

func (s *AuthServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, user.RoleNames())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        dto.NewUserResponse(user),
	}, nil
}

// Authenticate rejects inactive accounts with 401, like an invalid token.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.DatabaseError(err)
	}
	if !user.IsActive() {
		return nil, apperrors.NewUnauthorizedError("User account is not active")
	}
	return user, nil
}
