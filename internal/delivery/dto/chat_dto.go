package dto

import "time"

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	Topic   string `json:"topic"`
}

type ChatReply struct {
	BotReply   string `json:"botReply"`
	IsRejected bool   `json:"isRejected"`
}

type ChatLogResponse struct {
	ChatID      string    `json:"chatId"`
	UserMessage string    `json:"userMessage"`
	BotReply    string    `json:"botReply"`
	Topic       string    `json:"topic"`
	Timestamp   time.Time `json:"timestamp"`
}
