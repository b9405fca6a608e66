package usecase

import (
	"context"
	"time"

	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Keys a generic update can never overwrite.
var reservedRecordKeys = []string{"uid", "userId", "createdAt", "updatedAt"}

// recordManager holds the list/get/update/delete logic shared by reminders,
// prescriptions and health notes.
type recordManager[T repository.Record] struct {
	db       *gorm.DB
	log      *logrus.Logger
	repo     repository.RecordRepository[T]
	schema   entity.PatchSchema
	reserved []string
	extras   func(*T) datatypes.JSONMap
	notFound error
	kind     string
	now      func() time.Time
}

func (m *recordManager[T]) list(ctx context.Context, userID string) ([]T, error) {
	records, err := m.repo.FindAllByUserID(ctx, m.db, userID)
	if err != nil {
		m.log.Warnf("Failed to list %ss: %+v", m.kind, err)
		return nil, err
	}
	return records, nil
}

func (m *recordManager[T]) get(ctx context.Context, userID, id string) (*T, error) {
	record, err := m.repo.FindByID(ctx, m.db, userID, id)
	if err != nil {
		m.log.Warnf("Failed to find %s: %+v", m.kind, err)
		return nil, err
	}
	if record == nil {
		return nil, m.notFound
	}
	return record, nil
}

// update merges patch into the record. Keys known to the schema update their
// columns; any other key is stored verbatim alongside the record.
func (m *recordManager[T]) update(ctx context.Context, userID, id string, patch entity.Patch) error {
	reserved := append(append([]string{}, reservedRecordKeys...), m.reserved...)
	columns, extras, err := m.schema.Split(patch, reserved...)
	if err != nil {
		return patchValidationError(err)
	}

	tx := m.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := m.repo.FindByID(ctx, tx, userID, id)
	if err != nil {
		m.log.Warnf("Failed to find %s: %+v", m.kind, err)
		return err
	}
	if record == nil {
		return m.notFound
	}

	if len(extras) > 0 {
		merged := datatypes.JSONMap{}
		for k, v := range m.extras(record) {
			merged[k] = v
		}
		for k, v := range extras {
			merged[k] = v
		}
		columns["extras"] = merged
	}
	columns["updated_at"] = m.now()

	if _, err := m.repo.UpdateColumns(ctx, tx, userID, id, columns); err != nil {
		m.log.Warnf("Failed to update %s: %+v", m.kind, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		m.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (m *recordManager[T]) delete(ctx context.Context, userID, id string) error {
	if err := m.repo.Delete(ctx, m.db, userID, id); err != nil {
		m.log.Warnf("Failed to delete %s: %+v", m.kind, err)
		return err
	}
	return nil
}
