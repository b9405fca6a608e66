package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Prescription is a prescription record with an optional uploaded file.
// StoragePath is the object-store handle used to delete that file.
type Prescription struct {
	ID          string            `gorm:"type:varchar(64);primaryKey" json:"prescriptionId"`
	UserID      string            `gorm:"type:varchar(128);not null;index" json:"-"`
	DoctorName  *string           `gorm:"type:varchar(255)" json:"doctorName"`
	Hospital    *string           `gorm:"type:varchar(255)" json:"hospital"`
	DateIssued  string            `gorm:"type:varchar(64)" json:"dateIssued"`
	Notes       *string           `gorm:"type:text" json:"notes"`
	FileURL     *string           `gorm:"type:text" json:"fileURL,omitempty"`
	FileType    *string           `gorm:"type:varchar(128)" json:"fileType,omitempty"`
	FileName    *string           `gorm:"type:varchar(255)" json:"fileName,omitempty"`
	StoragePath *string           `gorm:"type:text" json:"storagePath,omitempty"`
	Extras      datatypes.JSONMap `json:"-"`
	CreatedAt   time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// HasAttachment reports whether an uploaded object backs this record.
func (p *Prescription) HasAttachment() bool {
	return p.StoragePath != nil && *p.StoragePath != ""
}

var PrescriptionSchema = PatchSchema{
	"doctorName": NullableStringField("doctor_name"),
	"hospital":   NullableStringField("hospital"),
	"dateIssued": StringField("date_issued"),
	"notes":      NullableStringField("notes"),
	"fileURL":    NullableStringField("file_url"),
	"fileType":   NullableStringField("file_type"),
	"fileName":   NullableStringField("file_name"),
}
