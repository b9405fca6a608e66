package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// User is the profile of an authenticated subject. The primary key is the
// subject id issued by the identity provider and is never regenerated.
type User struct {
	ID                string                      `gorm:"type:varchar(128);primaryKey" json:"uid"`
	Email             *string                     `gorm:"type:varchar(255)" json:"email"`
	DisplayName       *string                     `gorm:"type:varchar(255)" json:"displayName"`
	PhotoURL          *string                     `gorm:"type:text" json:"photoURL"`
	BloodType         *string                     `gorm:"type:varchar(16)" json:"bloodType"`
	DateOfBirth       *string                     `gorm:"type:varchar(32)" json:"dateOfBirth"`
	Weight            decimal.NullDecimal         `gorm:"type:decimal(10,2)" json:"weight"`
	Height            decimal.NullDecimal         `gorm:"type:decimal(10,2)" json:"height"`
	Phone             *string                     `gorm:"type:varchar(64)" json:"phone"`
	Allergies         datatypes.JSONSlice[string] `json:"allergies"`
	MedicalConditions datatypes.JSONSlice[string] `json:"medicalConditions"`
	CreatedAt         time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserProfileSchema is the allow-list of profile keys a user may write.
var UserProfileSchema = PatchSchema{
	"displayName": NullableStringField("display_name"),
	"photoURL":    NullableStringField("photo_url"),
	"bloodType":   NullableStringField("blood_type"),
	"weight":      DecimalField("weight"),
	"height":      DecimalField("height"),
	"phone":       NullableStringField("phone"),
	"allergies":   StringListField("allergies"),
	"dateOfBirth": NullableStringField("date_of_birth"),
}

// EmergencySyncedKeys are the profile keys copied into the emergency record.
var EmergencySyncedKeys = map[string]string{
	"displayName": "display_name",
	"bloodType":   "blood_type",
	"dateOfBirth": "date_of_birth",
}
