package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// Standard response types for consistent API responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceErrorToStatus maps domain errors to HTTP status codes and
// user-facing messages. Internals never leak: unknown errors collapse to a
// generic 500.
func mapServiceErrorToStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAreaNotFound):
		return http.StatusNotFound, ErrMsgAreaNotFoundHTTP
	case errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound, ErrMsgPlayerNotFoundHTTP
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}
