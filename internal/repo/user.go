package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/todo_app/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

// FindUserByUsername is an exact, case-sensitive match.
func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			return ErrUserAlreadyExist
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(u).Error
	})
}

func (r *GormRepo) UpdatePassword(ctx context.Context, id uint, hashed []byte) error {
	return r.updateUserColumn(ctx, id, "hashed_password", hashed)
}

func (r *GormRepo) UpdatePhoneNumber(ctx context.Context, id uint, phone string) error {
	return r.updateUserColumn(ctx, id, "phone_number", phone)
}

func (r *GormRepo) updateUserColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
