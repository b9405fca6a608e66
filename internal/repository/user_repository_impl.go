package repository

import (
	"context"
	"errors"

	"meditrack-backend/internal/domain/entity"
	domainRepo "meditrack-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, db *gorm.DB, user *entity.User) (bool, error) {
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(user)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id string) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateColumns(ctx context.Context, db *gorm.DB, id string, columns map[string]interface{}) error {
	return db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(columns).Error
}
