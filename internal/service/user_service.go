package service

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"user-management-api/internal/model"
	"user-management-api/pkg/apierror"
)

type UserService struct {
	users  UserStore
	policy *AccountPolicy
}

func NewUserService(users UserStore, policy *AccountPolicy) *UserService {
	return &UserService{users: users, policy: policy}
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, model.ErrUserNotFound
	}
	return s.users.FindByID(ctx, parsed)
}

func (s *UserService) List(ctx context.Context, skip int, limit int) ([]model.User, int, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.users.List(ctx, skip, limit)
}

// Update applies a partial profile update. Fields are merged explicitly, one
// by one; absent fields keep their stored values.
func (s *UserService) Update(ctx context.Context, id string, req model.UserUpdateRequest) (model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, model.ErrUserNotFound
	}

	current, err := s.users.FindByID(ctx, parsed)
	if err != nil {
		return model.User{}, err
	}

	merged, err := mergeUserUpdate(current, req)
	if err != nil {
		return model.User{}, err
	}

	return s.users.UpdateProfile(ctx, merged)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.ErrUserNotFound
	}
	return s.users.Delete(ctx, parsed)
}

func (s *UserService) Unlock(ctx context.Context, id string) (model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, model.ErrUserNotFound
	}
	return s.policy.Unlock(ctx, parsed)
}

// mergeUserUpdate enumerates every updatable field; new fields on
// UserUpdateRequest must be handled here.
func mergeUserUpdate(current model.User, req model.UserUpdateRequest) (model.User, error) {
	if req.Nickname != nil {
		if !nicknamePattern.MatchString(*req.Nickname) {
			return model.User{}, apierror.New("INVALID_NICKNAME", "nickname must be 3-30 characters (letters, digits, _ or -)", "nickname", http.StatusUnprocessableEntity)
		}
		current.Nickname = req.Nickname
	}
	if req.FirstName != nil {
		current.FirstName = req.FirstName
	}
	if req.LastName != nil {
		current.LastName = req.LastName
	}
	return current, nil
}
