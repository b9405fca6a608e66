package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"meditrack-backend/internal/delivery/dto"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/response"

	"github.com/gorilla/mux"
)

type EmergencyHandler struct {
	emergencyUsecase usecase.EmergencyUsecase
}

func NewEmergencyHandler(emergencyUsecase usecase.EmergencyUsecase) *EmergencyHandler {
	return &EmergencyHandler{
		emergencyUsecase: emergencyUsecase,
	}
}

func (h *EmergencyHandler) CreateAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	// An empty body refreshes the record without changing its tags.
	var req dto.CreateAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.emergencyUsecase.CreateOrRefreshAccess(r.Context(), userID, req.SharedData)
	if err != nil {
		response.InternalServerError(w, "Failed to create emergency access")
		return
	}

	response.Success(w, http.StatusOK, "Emergency access created", response.Fields{"data": result})
}

// GetEmergencyData is public; knowing the uid and access id is enough.
func (h *EmergencyHandler) GetEmergencyData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	data, err := h.emergencyUsecase.GetEmergencyData(r.Context(), vars["uid"], vars["accessId"])
	if err != nil {
		if errors.Is(err, usecase.ErrEmergencyAccessNotFound) {
			response.NotFound(w, "Emergency access not found")
			return
		}
		response.InternalServerError(w, "Failed to fetch emergency data")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"data": data})
}

func (h *EmergencyHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	contacts, err := h.emergencyUsecase.GetContacts(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to load contacts")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"contacts": contacts})
}

func (h *EmergencyHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contacts, err := h.emergencyUsecase.AddContact(r.Context(), userID, &req)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to add contact")
		return
	}

	response.Success(w, http.StatusCreated, "Contact added", response.Fields{"contacts": contacts})
}

func (h *EmergencyHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	contact, err := h.emergencyUsecase.GetContact(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, usecase.ErrContactNotFound) {
			response.NotFound(w, "Contact not found")
			return
		}
		response.InternalServerError(w, "Failed to load contact")
		return
	}

	response.Success(w, http.StatusOK, "", response.Fields{"contact": contact})
}

func (h *EmergencyHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	patch, ok := decodePatch(w, r)
	if !ok {
		return
	}

	contact, err := h.emergencyUsecase.UpdateContact(r.Context(), userID, mux.Vars(r)["id"], patch)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrContactNotFound) {
			response.NotFound(w, "Contact not found")
			return
		}
		response.InternalServerError(w, "Failed to update contact")
		return
	}

	response.Success(w, http.StatusOK, "Contact updated", response.Fields{"contact": contact})
}

func (h *EmergencyHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.emergencyUsecase.DeleteContact(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		response.InternalServerError(w, "Failed to delete contact")
		return
	}

	response.Success(w, http.StatusOK, "Contact deleted", nil)
}
