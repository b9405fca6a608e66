package entity

import (
	"time"

	"gorm.io/datatypes"
)

type HealthNote struct {
	ID        string            `gorm:"type:varchar(64);primaryKey" json:"noteId"`
	UserID    string            `gorm:"type:varchar(128);not null;index" json:"-"`
	Title     string            `gorm:"type:varchar(255)" json:"title"`
	Content   string            `gorm:"type:text" json:"content"`
	Extras    datatypes.JSONMap `json:"-"`
	CreatedAt time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (HealthNote) TableName() string {
	return "health_notes"
}

var HealthNoteSchema = PatchSchema{
	"title":   StringField("title"),
	"content": StringField("content"),
}
