package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

// CreateUser inserts u. A duplicate username or email yields ErrUserAlreadyExist,
// whether caught by the lookup or by the unique index.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	taken, err := r.UsernameOrEmailTaken(ctx, u.Username, u.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrUserAlreadyExist
	}

	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExist
		}
		return err
	}
	return nil
}

func (r *GormRepo) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
