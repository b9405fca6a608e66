package repository

import (
	"context"

	"meditrack-backend/internal/domain/entity"

	"gorm.io/gorm"
)

// Record is any per-user document managed by a RecordRepository.
type Record interface {
	entity.Reminder | entity.Prescription | entity.HealthNote
}

// RecordRepository stores records of one kind, always addressed by the owning
// user id plus the record id.
type RecordRepository[T Record] interface {
	Create(ctx context.Context, db *gorm.DB, record *T) error
	FindAllByUserID(ctx context.Context, db *gorm.DB, userID string) ([]T, error)
	FindByID(ctx context.Context, db *gorm.DB, userID, id string) (*T, error)
	UpdateColumns(ctx context.Context, db *gorm.DB, userID, id string, columns map[string]interface{}) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, userID, id string) error
}

type (
	ReminderRepository     = RecordRepository[entity.Reminder]
	PrescriptionRepository = RecordRepository[entity.Prescription]
	HealthNoteRepository   = RecordRepository[entity.HealthNote]
)
