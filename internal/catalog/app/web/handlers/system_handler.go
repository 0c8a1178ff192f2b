package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"

	"pharmacatalog_api/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	db      Pinger
	docsDir string
	log     logger.Logger
}

func NewSystemHandler(db Pinger, docsDir string, log logger.Logger) *SystemHandler {
	return &SystemHandler{db: db, docsDir: docsDir, log: log}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("Health check failed: %v", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *SystemHandler) Docs(w http.ResponseWriter, r *http.Request) {
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir(h.docsDir),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Pharma Catalog API"),
		),
	)
	if err != nil {
		h.log.Error("Failed to render API reference: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to render API reference", h.log)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}
