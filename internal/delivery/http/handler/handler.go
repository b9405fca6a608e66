package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"meditrack-backend/internal/delivery/http/middleware"
	"meditrack-backend/internal/domain/entity"
	"meditrack-backend/internal/usecase"
	"meditrack-backend/pkg/response"
)

// currentUserID returns the authenticated subject id, writing a 401 when the
// request carries none.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok || userID == "" {
		response.Unauthorized(w, "Invalid token")
		return "", false
	}
	return userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// decodePatch reads a JSON object body as a partial update.
func decodePatch(w http.ResponseWriter, r *http.Request) (entity.Patch, bool) {
	var patch entity.Patch
	if !decodeJSON(w, r, &patch) {
		return nil, false
	}
	if patch == nil {
		patch = entity.Patch{}
	}
	return patch, true
}

// writeValidationError reports whether err was a validation failure and, if
// so, writes the 400 response.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		response.ValidationError(w, vErr.Fields)
		return true
	}
	return false
}
