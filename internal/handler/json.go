package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/domain"
)

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code
// and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeDomainError translates a service error to its transport status.
// This is the only place error kinds are mapped to status codes;
// handlers call it after handling their endpoint-specific cases.
func writeDomainError(w http.ResponseWriter, err error, dev bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	default:
		slog.Error("request failed", "error", err)
		if dev {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
