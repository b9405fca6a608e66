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
	ErrReminderNotFound = errors.New("reminder not found")
)

type ReminderUsecase interface {
	Create(ctx context.Context, userID string, req *dto.CreateReminderRequest) (string, error)
	List(ctx context.Context, userID string) ([]dto.ReminderResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.ReminderResponse, error)
	Update(ctx context.Context, userID, id string, patch entity.Patch) error
	Delete(ctx context.Context, userID, id string) error
}

type reminderUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	reminderRepo repository.ReminderRepository
	records      *recordManager[entity.Reminder]
	now          func() time.Time
}

func NewReminderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reminderRepo repository.ReminderRepository,
	now func() time.Time,
) ReminderUsecase {
	return &reminderUsecase{
		db:           db,
		log:          log,
		reminderRepo: reminderRepo,
		records: &recordManager[entity.Reminder]{
			db:       db,
			log:      log,
			repo:     reminderRepo,
			schema:   entity.ReminderSchema,
			reserved: []string{"reminderId"},
			extras:   func(r *entity.Reminder) datatypes.JSONMap { return r.Extras },
			notFound: ErrReminderNotFound,
			kind:     "reminder",
			now:      now,
		},
		now: now,
	}
}

// Create stores a new reminder in the pending state and returns its id.
func (u *reminderUsecase) Create(ctx context.Context, userID string, req *dto.CreateReminderRequest) (string, error) {
	now := u.now()
	reminder := &entity.Reminder{
		ID:           uuid.NewString(),
		UserID:       userID,
		MedicineName: req.MedicineName,
		Dosage:       req.Dosage,
		Time:         req.Time,
		Repeat:       req.Repeat,
		ImageURL:     nonEmpty(req.ImageURL),
		VoiceNoteURL: nonEmpty(req.VoiceNoteURL),
		Status:       entity.ReminderStatusPending,
		Extras:       datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.reminderRepo.Create(ctx, u.db, reminder); err != nil {
		u.log.Warnf("Failed to create reminder: %+v", err)
		return "", err
	}

	return reminder.ID, nil
}

func (u *reminderUsecase) List(ctx context.Context, userID string) ([]dto.ReminderResponse, error) {
	reminders, err := u.records.list(ctx, userID)
	if err != nil {
		return nil, err
	}
	return converter.RemindersToResponse(reminders), nil
}

func (u *reminderUsecase) GetByID(ctx context.Context, userID, id string) (*dto.ReminderResponse, error) {
	reminder, err := u.records.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return converter.ReminderToResponse(reminder), nil
}

func (u *reminderUsecase) Update(ctx context.Context, userID, id string, patch entity.Patch) error {
	return u.records.update(ctx, userID, id, patch)
}

func (u *reminderUsecase) Delete(ctx context.Context, userID, id string) error {
	return u.records.delete(ctx, userID, id)
}

// nonEmpty maps an empty optional string to nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
