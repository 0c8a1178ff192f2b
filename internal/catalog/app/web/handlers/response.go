package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, log logger.Logger) {
	writeJSON(w, status, errorResponse{Error: msg}, log)
}

// writeServiceError maps a business error to its HTTP status. notFound and
// failure are the messages used for 404 and 500 responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound, failure string, log logger.Logger) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr, log)
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound, log)
	case errors.Is(err, models.ErrDuplicate):
		writeError(w, http.StatusConflict, "Product with this EAN already exists", log)
	default:
		log.Error("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, failure, log)
	}
}
