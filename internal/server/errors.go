package server

import (
	"errors"
	"net/http"

	"github.com/Veraticus/loansiya/internal/common"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError writes {error, details}. The message comes from a wrapped
// UserError when present, otherwise fallback.
func respondError(w http.ResponseWriter, err error, fallback string) {
	respondJSON(w, statusFor(err), errorResponse{
		Error:   common.UserMessage(err, fallback),
		Details: err.Error(),
	})
}

// respondFailure writes {success:false, error}.
func respondFailure(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, failureResponse{Success: false, Error: message})
}
