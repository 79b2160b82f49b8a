package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/platform/auth"
	"github.com/nextgen/nextgen-api/pkg/logger"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}

func Fail(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Envelope{Success: false, Message: message})
}

// Error maps a service error onto the envelope. Unrecognized errors
// become a 500 with a generic message; details go to the log only.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrNoActiveCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeMismatch),
		errors.Is(err, domain.ErrDeliveryFailed):
		Fail(w, http.StatusBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Internal error", "error", err, "path", r.URL.Path)
		Fail(w, http.StatusInternalServerError, "Internal server error")
	}
}
