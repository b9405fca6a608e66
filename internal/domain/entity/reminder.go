package entity

import (
	"time"

	"gorm.io/datatypes"
)

const ReminderStatusPending = "pending"

// Reminder is a medicine reminder owned by a user.
type Reminder struct {
	ID           string            `gorm:"type:varchar(64);primaryKey" json:"reminderId"`
	UserID       string            `gorm:"type:varchar(128);not null;index" json:"-"`
	MedicineName string            `gorm:"type:varchar(255)" json:"medicineName"`
	Dosage       string            `gorm:"type:varchar(255)" json:"dosage"`
	Time         string            `gorm:"type:varchar(64)" json:"time"`
	Repeat       string            `gorm:"type:varchar(64)" json:"repeat"`
	ImageURL     *string           `gorm:"type:text" json:"imageURL"`
	VoiceNoteURL *string           `gorm:"type:text" json:"voiceNoteURL"`
	Status       string            `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	Extras       datatypes.JSONMap `json:"-"`
	CreatedAt    time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (Reminder) TableName() string {
	return "reminders"
}

var ReminderSchema = PatchSchema{
	"medicineName": StringField("medicine_name"),
	"dosage":       StringField("dosage"),
	"time":         StringField("time"),
	"repeat":       StringField("repeat"),
	"imageURL":     NullableStringField("image_url"),
	"voiceNoteURL": NullableStringField("voice_note_url"),
	"status":       StringField("status"),
}
