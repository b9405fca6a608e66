package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/response"

	"github.com/gorilla/mux"
)

// Multipart field carrying the prescription image.
const prescriptionFileField = "image"

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	maxUploadBytes      int64
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, maxUploadBytes int64) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		maxUploadBytes:      maxUploadBytes,
	}
}

// CreatePrescription accepts either a JSON body or a multipart form with an
// optional image file.
func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var (
		req  dto.CreatePrescriptionRequest
		file *usecase.Attachment
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req, file, ok = h.readMultipart(w, r)
		if !ok {
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.prescriptionUsecase.Create(r.Context(), userID, &req, file)
	if err != nil {
		response.InternalServerError(w, "Failed to create prescription")
		return
	}

	fields := response.Fields{"prescriptionId": result.PrescriptionID}
	if result.Warning != "" {
		fields["warning"] = result.Warning
	}
	response.Success(w, http.StatusCreated, "Prescription created", fields)
}

func (h *PrescriptionHandler) readMultipart(w http.ResponseWriter, r *http.Request) (dto.CreatePrescriptionRequest, *usecase.Attachment, bool) {
	var req dto.CreatePrescriptionRequest

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "File too large")
			return req, nil, false
		}
		response.BadRequest(w, "Invalid multipart body")
		return req, nil, false
	}

	req.DoctorName = formValue(r, "doctorName")
	req.Hospital = formValue(r, "hospital")
	req.DateIssued = formValue(r, "dateIssued")
	req.Notes = formValue(r, "notes")

	part, header, err := r.FormFile(prescriptionFileField)
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, true
	}
	if err != nil {
		response.BadRequest(w, "Invalid file")
		return req, nil, false
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		response.BadRequest(w, "Invalid file")
		return req, nil, false
	}

	return req, &usecase.Attachment{Name: header.Filename, Data: data}, true
}

func formValue(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func (h *PrescriptionHandler) GetPrescriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionUsecase.List(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to load prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"prescriptions": prescriptions})
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.GetByID(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, usecase.ErrPrescriptionNotFound) {
			response.NotFound(w, "Prescription not found")
			return
		}
		response.InternalServerError(w, "Failed to load prescription")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"prescription": prescription})
}

func (h *PrescriptionHandler) UpdatePrescription(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	patch, ok := decodePatch(w, r)
	if !ok {
		return
	}

	if err := h.prescriptionUsecase.Update(r.Context(), userID, mux.Vars(r)["id"], patch); err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrPrescriptionNotFound) {
			response.NotFound(w, "Prescription not found")
			return
		}
		response.InternalServerError(w, "Failed to update prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription updated", nil)
}

func (h *PrescriptionHandler) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.prescriptionUsecase.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		response.InternalServerError(w, "Failed to delete prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription deleted", nil)
}
