package repository

import (
	"context"

	"anoa.com/socialplatform/internal/entity"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	UpdateProfile(ctx context.Context, id uint, bio, profilePicture *string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile writes only the fields that are non-nil.
func (r *userRepository) UpdateProfile(ctx context.Context, id uint, bio, profilePicture *string) error {
	updates := map[string]interface{}{}
	if bio != nil {
		updates["bio"] = *bio
	}
	if profilePicture != nil {
		updates["profile_picture"] = *profilePicture
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
