package dto

import "time"

// CreatePrescriptionRequest is accepted both as a JSON body and as the text
// fields of a multipart upload.
type CreatePrescriptionRequest struct {
	DoctorName *string `json:"doctorName"`
	Hospital   *string `json:"hospital"`
	DateIssued *string `json:"dateIssued"`
	Notes      *string `json:"notes"`
	FileURL    *string `json:"fileURL"`
	FileType   *string `json:"fileType"`
}

type CreatePrescriptionResponse struct {
	PrescriptionID string
	Warning        string
}

type PrescriptionResponse struct {
	PrescriptionID string                 `json:"prescriptionId"`
	DoctorName     *string                `json:"doctorName"`
	Hospital       *string                `json:"hospital"`
	DateIssued     string                 `json:"dateIssued"`
	Notes          *string                `json:"notes"`
	FileURL        *string                `json:"fileURL,omitempty"`
	FileType       *string                `json:"fileType,omitempty"`
	FileName       *string                `json:"fileName,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Extras         map[string]interface{} `json:"-"`
}

func (p PrescriptionResponse) MarshalJSON() ([]byte, error) {
	type alias PrescriptionResponse
	return marshalWithExtras(alias(p), p.Extras)
}
