package application

import (
	"context"

	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"go.uber.org/zap"
)

// UserService implements use cases for user management.
type UserService struct {
	repo   userDomain.Repository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.Repository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Create registers a new user. The email must not be taken.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", saved.ID()))
	dto := toUserDTO(saved)
	return &dto, nil
}

// Update applies a partial update to a user.
func (s *UserService) Update(ctx context.Context, userID int64, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	patched, err := u.Patch(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, patched); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.Int64("user_id", userID))
	dto := toUserDTO(patched)
	return &dto, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]UserDTO, len(users))
	for i, u := range users {
		result[i] = toUserDTO(u)
	}
	return result, nil
}

// Delete removes a user and everything that depends on it.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}
