package usecase

import (
	"context"
	"errors"
	"time"

	"meditrack-backend/internal/converter"
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrHealthNoteNotFound = errors.New("note not found")
)

type HealthNoteUsecase interface {
	Create(ctx context.Context, userID string, req *dto.CreateHealthNoteRequest) (string, error)
	List(ctx context.Context, userID string) ([]dto.HealthNoteResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.HealthNoteResponse, error)
	Update(ctx context.Context, userID, id string, patch entity.Patch) error
	Delete(ctx context.Context, userID, id string) error
}

type healthNoteUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	noteRepo repository.HealthNoteRepository
	records  *recordManager[entity.HealthNote]
	now      func() time.Time
}

func NewHealthNoteUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	noteRepo repository.HealthNoteRepository,
	now func() time.Time,
) HealthNoteUsecase {
	return &healthNoteUsecase{
		db:       db,
		log:      log,
		noteRepo: noteRepo,
		records: &recordManager[entity.HealthNote]{
			db:       db,
			log:      log,
			repo:     noteRepo,
			schema:   entity.HealthNoteSchema,
			reserved: []string{"noteId"},
			extras:   func(n *entity.HealthNote) datatypes.JSONMap { return n.Extras },
			notFound: ErrHealthNoteNotFound,
			kind:     "health note",
			now:      now,
		},
		now: now,
	}
}

func (u *healthNoteUsecase) Create(ctx context.Context, userID string, req *dto.CreateHealthNoteRequest) (string, error) {
	now := u.now()
	note := &entity.HealthNote{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Extras:    datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.noteRepo.Create(ctx, u.db, note); err != nil {
		u.log.Warnf("Failed to create health note: %+v", err)
		return "", err
	}

	return note.ID, nil
}

func (u *healthNoteUsecase) List(ctx context.Context, userID string) ([]dto.HealthNoteResponse, error) {
	notes, err := u.records.list(ctx, userID)
	if err != nil {
		return nil, err
	}
	return converter.HealthNotesToResponse(notes), nil
}

func (u *healthNoteUsecase) GetByID(ctx context.Context, userID, id string) (*dto.HealthNoteResponse, error) {
	note, err := u.records.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return converter.HealthNoteToResponse(note), nil
}

func (u *healthNoteUsecase) Update(ctx context.Context, userID, id string, patch entity.Patch) error {
	return u.records.update(ctx, userID, id, patch)
}

func (u *healthNoteUsecase) Delete(ctx context.Context, userID, id string) error {
	return u.records.delete(ctx, userID, id)
}
