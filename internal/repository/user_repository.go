package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shareit-app/shareit/internal/domain"
	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"gorm.io/gorm"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:512;not null;uniqueIndex:uq_users_email"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string { return "users" }

// GormUserRepository implements user.Repository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	var model UserModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toUserDomain(&model), nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]*userDomain.User, error) {
	var models []UserModel
	if err := conn(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*userDomain.User, len(models))
	for i := range models {
		users[i] = toUserDomain(&models[i])
	}
	return users, nil
}

func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) (*userDomain.User, error) {
	model := toUserModel(u)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return nil, translateUserError(err)
	}
	return u.WithID(model.ID), nil
}

func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	result := conn(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ?", u.ID()).
		Updates(map[string]interface{}{
			"name":  u.Name(),
			"email": u.Email(),
		})
	if result.Error != nil {
		return translateUserError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", u.ID())
	}
	return nil
}

// Delete removes the user together with its bookings, comments, requests and items.
// Dependent rows are removed explicitly so the behaviour does not depend on the
// store enforcing foreign keys.
func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&ItemModel{}).Select("id").Where("owner_id = ?", id)

		steps := []struct {
			name  string
			query *gorm.DB
			model interface{}
		}{
			{"bookings", tx.Where("booker_id = ? OR item_id IN (?)", id, owned), &BookingModel{}},
			{"comments", tx.Where("author_id = ? OR item_id IN (?)", id, owned), &CommentModel{}},
			{"items", tx.Where("owner_id = ?", id), &ItemModel{}},
		}
		for _, s := range steps {
			if err := s.query.Delete(s.model).Error; err != nil {
				return fmt.Errorf("failed to delete %s of user %d: %w", s.name, id, err)
			}
		}

		requests := tx.Model(&RequestModel{}).Select("id").Where("requester_id = ?", id)
		if err := tx.Model(&ItemModel{}).Where("request_id IN (?)", requests).Update("request_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach items from requests of user %d: %w", id, err)
		}
		if err := tx.Where("requester_id = ?", id).Delete(&RequestModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete requests of user %d: %w", id, err)
		}

		result := tx.Where("id = ?", id).Delete(&UserModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("User", id)
		}
		return nil
	})
}

func translateUserError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewConflictError("Email already exists")
	}
	return fmt.Errorf("failed to save user: %w", err)
}

// --- Conversions ---

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email(),
	}
}

func toUserDomain(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(m.ID, m.Name, m.Email)
}
