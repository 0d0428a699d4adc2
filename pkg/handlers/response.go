package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps service errors to HTTP responses. Unrecognized
// errors become a generic 500 and are logged; sentinel errors carry
// their message to the client.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	message := "Something went wrong"

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, code = http.StatusBadRequest, "validation_failed"
		message = err.Error()
	case errors.Is(err, apperrors.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
		message = "Invalid credentials"
	case errors.Is(err, apperrors.ErrInactiveAccount):
		status, code = http.StatusForbidden, "account_deactivated"
		message = "Account is deactivated"
	case errors.Is(err, apperrors.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
		message = "Not permitted"
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
		message = "Resource not found"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
		message = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		status, code = http.StatusConflict, "conflict"
		message = err.Error()
	default:
		logger.Error("Unhandled service error", zap.Error(err))
	}

	if werr := ErrorResponse(w, status, code, message); werr != nil {
		logger.Error("Failed to write error response", zap.Error(werr))
	}
}
