package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Columns users can be looked up by.
const (
	UserColumnUsername Column = "username"
	UserColumnEmail    Column = "email"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uint) (*models.User, error)
	GetAny(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, page, pageSize int) ([]models.User, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Update(ctx context.Context, id uint, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id uint) (bool, error)
	FindBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) ([]models.User, error)
	FindOneBy(ctx context.Context, column Column, value interface{}, includeDeleted bool) (*models.User, error)
}

type userRepository struct {
	*Store[models.User]
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		Store: NewStore[models.User](db, "User", UserColumnUsername, UserColumnEmail),
		db:    db,
	}
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, r.wrap(err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, user *models.User) (*models.User, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"password":   user.Password,
	})
}
