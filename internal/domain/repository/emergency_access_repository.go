package repository

import (
	"context"

	"meditrack-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type EmergencyAccessRepository interface {
	Create(ctx context.Context, db *gorm.DB, record *entity.EmergencyAccess) error
	FindByID(ctx context.Context, db *gorm.DB, userID, accessID string) (*entity.EmergencyAccess, error)
	// Upsert inserts record, or on conflict overwrites only updateColumns.
	Upsert(ctx context.Context, db *gorm.DB, record *entity.EmergencyAccess, updateColumns []string) error
	// CompareAndSwapContacts writes contacts only when the stored version still
	// equals version. It reports whether the write happened.
	CompareAndSwapContacts(ctx context.Context, db *gorm.DB, userID, accessID string, version int64, contacts []entity.EmergencyContact) (bool, error)
	// ForceContacts writes contacts regardless of the stored version. It
	// reports false when the record does not exist.
	ForceContacts(ctx context.Context, db *gorm.DB, userID, accessID string, contacts []entity.EmergencyContact) (bool, error)
}
