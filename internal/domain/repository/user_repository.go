package repository

import (
	"context"

	"meditrack-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	// CreateIfAbsent inserts the user unless one with the same id exists and
	// reports whether a row was written.
	CreateIfAbsent(ctx context.Context, db *gorm.DB, user *entity.User) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id string) (*entity.User, error)
	UpdateColumns(ctx context.Context, db *gorm.DB, id string, columns map[string]interface{}) error
}
