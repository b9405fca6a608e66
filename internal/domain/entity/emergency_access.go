package entity

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultAccessID is the identifier of the single emergency record every user owns.
const DefaultAccessID = "default"

// EmergencyAccess is the public medical summary of a user, readable without a
// credential by anyone holding the (uid, accessId) pair.
type EmergencyAccess struct {
	UserID            string                                `gorm:"type:varchar(128);primaryKey" json:"uid"`
	AccessID          string                                `gorm:"type:varchar(64);primaryKey" json:"accessId"`
	DisplayName       *string                               `gorm:"type:varchar(255)" json:"displayName"`
	BloodType         *string                               `gorm:"type:varchar(16)" json:"bloodType"`
	DateOfBirth       *string                               `gorm:"type:varchar(32)" json:"dateOfBirth"`
	SharedData        datatypes.JSONSlice[string]           `json:"sharedData"`
	EmergencyContacts datatypes.JSONSlice[EmergencyContact] `json:"emergencyContacts"`
	Version           int64                                 `gorm:"not null;default:0" json:"-"`
	CreatedAt         time.Time                             `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time                             `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (EmergencyAccess) TableName() string {
	return "emergency_access"
}

// EmergencyContact is embedded in the contact list of an EmergencyAccess record.
type EmergencyContact struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship"`
	Email        *string   `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Contacts returns the contact list, never nil.
func (e *EmergencyAccess) Contacts() []EmergencyContact {
	if e == nil || e.EmergencyContacts == nil {
		return []EmergencyContact{}
	}
	return e.EmergencyContacts
}

// FindContact returns the index of the contact with the given id, or -1.
func (e *EmergencyAccess) FindContact(id string) int {
	for i, c := range e.Contacts() {
		if c.ID == id {
			return i
		}
	}
	return -1
}
