package entity

import "time"

const DefaultChatTopic = "general"

// ChatLog is one question/answer exchange with the assistant. Entries are
// append-only.
type ChatLog struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"chatId"`
	UserID      string    `gorm:"type:varchar(128);not null;index:idx_chat_logs_user_time,priority:1" json:"-"`
	UserMessage string    `gorm:"type:text;not null" json:"userMessage"`
	BotReply    string    `gorm:"type:text;not null" json:"botReply"`
	Topic       string    `gorm:"type:varchar(64);not null;default:'general'" json:"topic"`
	Timestamp   time.Time `gorm:"column:logged_at;not null;index:idx_chat_logs_user_time,priority:2" json:"timestamp"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}
