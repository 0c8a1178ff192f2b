package handlers

import (
	"context"
	"fmt"
	"net/http"

	"pharmacatalog_api/internal/catalog/business/importer"
	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

type ImportHandler struct {
	importer importer.Importer
	log      logger.Logger
}

func NewImportHandler(imp importer.Importer, log logger.Logger) *ImportHandler {
	return &ImportHandler{importer: imp, log: log}
}

type importResponse struct {
	Message  string                `json:"message"`
	WasEmpty bool                  `json:"wasEmpty"`
	Summary  *models.ImportSummary `json:"summary"`
}

// Import runs a full import synchronously. The run is detached from the
// request so that a client hanging up does not abort it.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if v := recover(); v != nil {
			h.log.Error("Import failed: %v", v)
			writeJSON(w, http.StatusInternalServerError,
				errorResponse{Error: "Import process failed", Details: fmt.Sprint(v)}, h.log)
		}
	}()

	ctx := context.WithoutCancel(r.Context())

	wasEmpty, err := h.importer.IsStoreEmpty(ctx)
	if err != nil {
		h.log.Warn("Failed to check table: %v", err)
		wasEmpty = false
	}

	summary := h.importer.Run(ctx)
	writeJSON(w, http.StatusOK, importResponse{
		Message:  "Import process completed",
		WasEmpty: wasEmpty,
		Summary:  summary,
	}, h.log)
}
