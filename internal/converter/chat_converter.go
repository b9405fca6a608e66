package converter

import (
	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/domain/entity"
)

func ChatLogsToResponse(logs []entity.ChatLog) []dto.ChatLogResponse {
	responses := make([]dto.ChatLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, dto.ChatLogResponse{
			ChatID:      l.ID,
			UserMessage: l.UserMessage,
			BotReply:    l.BotReply,
			Topic:       l.Topic,
			Timestamp:   l.Timestamp,
		})
	}
	return responses
}
