package usecase

import (
	"context"
	"strings"
	"time"

	"meditrack-backend/internal/converter"
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/domain/repository"
	"meditrack-backend/internal/infrastructure/completion"
	"meditrack-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// ChatHistoryLimit caps the entries returned by GetChatHistory.
	ChatHistoryLimit = 50

	ChatRefusalMessage = "I can only help with health, medical, diet, and lifestyle questions. " +
		"Please ask me something related to medical, nutrition, fitness, or wellness! ❤️"

	chatSystemPrompt = "You are a friendly medical and diet assistant. Provide safe, simple, non-diagnostic advice. " +
		"Only answer health, medical, diet, and lifestyle related questions."
)

type ChatUsecase interface {
	AskAI(ctx context.Context, userID, message, topic string) (*dto.ChatReply, error)
	GetChatHistory(ctx context.Context, userID string) ([]dto.ChatLogResponse, error)
}

type chatUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	chatLogRepo repository.ChatLogRepository
	completion  completion.Client
	now         func() time.Time
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	chatLogRepo repository.ChatLogRepository,
	completionClient completion.Client,
	now func() time.Time,
) ChatUsecase {
	return &chatUsecase{
		db:          db,
		log:         log,
		chatLogRepo: chatLogRepo,
		completion:  completionClient,
		now:         now,
	}
}

// AskAI answers health questions through the completion API and logs the
// exchange. Anything else gets the fixed refusal without a call or a log.
func (u *chatUsecase) AskAI(ctx context.Context, userID, message, topic string) (*dto.ChatReply, error) {
	if !service.IsHealthRelated(message) {
		return &dto.ChatReply{BotReply: ChatRefusalMessage, IsRejected: true}, nil
	}

	if strings.TrimSpace(topic) == "" {
		topic = entity.DefaultChatTopic
	}

	reply, err := u.completion.Complete(ctx, []completion.Message{
		{Role: completion.RoleSystem, Content: chatSystemPrompt},
		{Role: completion.RoleUser, Content: message},
	})
	if err != nil {
		u.log.Warnf("Failed to get completion: %+v", err)
		return nil, err
	}

	chatLog := &entity.ChatLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		UserMessage: message,
		BotReply:    reply,
		Topic:       topic,
		Timestamp:   u.now(),
	}
	if err := u.chatLogRepo.Create(ctx, u.db, chatLog); err != nil {
		u.log.Warnf("Failed to save chat log: %+v", err)
		return nil, err
	}

	return &dto.ChatReply{BotReply: reply, IsRejected: false}, nil
}

func (u *chatUsecase) GetChatHistory(ctx context.Context, userID string) ([]dto.ChatLogResponse, error) {
	logs, err := u.chatLogRepo.FindRecentByUserID(ctx, u.db, userID, ChatHistoryLimit)
	if err != nil {
		u.log.Warnf("Failed to load chat history: %+v", err)
		return nil, err
	}
	return converter.ChatLogsToResponse(logs), nil
}
