package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Body measurements are plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// CheckUserResponse is returned by the user bootstrap endpoint.
type CheckUserResponse struct {
	UID         string  `json:"uid"`
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	IsNewUser   bool    `json:"isNewUser"`
}

// EmergencyAccessSummary is the part of the emergency record shown with the
// profile. Pointer fields are null when the record does not exist.
type EmergencyAccessSummary struct {
	AccessID     *string  `json:"accessId"`
	EmergencyURL *string  `json:"emergencyURL"`
	SharedData   []string `json:"sharedData"`
	ContactCount int      `json:"contactCount"`
}

type ProfileResponse struct {
	UID               string                 `json:"uid"`
	Email             *string                `json:"email"`
	DisplayName       *string                `json:"displayName"`
	PhotoURL          *string                `json:"photoURL"`
	BloodType         *string                `json:"bloodType"`
	DateOfBirth       *string                `json:"dateOfBirth"`
	Weight            decimal.NullDecimal    `json:"weight"`
	Height            decimal.NullDecimal    `json:"height"`
	Phone             *string                `json:"phone"`
	Allergies         []string               `json:"allergies"`
	MedicalConditions []string               `json:"medicalConditions"`
	EmergencyAccess   EmergencyAccessSummary `json:"emergencyAccess"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}
