package services

import (
	"context"
	"encoding/json"
	"errors"

	"eventix_backend/internal/logger"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/services/dto"
	"eventix_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, query *dto.UserListQuery) ([]*dto.UserResponse, dto.Pagination, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func userRepoError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrNotFound(err, "user", "User not found")
	}
	return apperrors.DatabaseError(err)
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userRepoError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	fields := repositories.UserProfileFields{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if req.Preferences != nil {
		raw, err := json.Marshal(req.Preferences)
		if err != nil {
			return nil, fieldError("preferences", "Must be a JSON object")
		}
		fields.Preferences = raw
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		return nil, userRepoError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, query *dto.UserListQuery) ([]*dto.UserResponse, dto.Pagination, error) {
	page, limit := repositories.NormalizePage(query.Page, query.Limit)

	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Status: query.Status,
		Role:   query.Role,
		Search: query.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, apperrors.DatabaseError(err)
	}

	out := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out, dto.NewPagination(page, limit, total), nil
}

// DeleteUser - admin removal; an admin cannot delete their own account.
func (s *userService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperrors.ErrCannotModifySelf
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return userRepoError(err)
	}
	logger.CtxInfo(ctx, "User deleted", "user_id", userID, "by", actorID)
	return nil
}
