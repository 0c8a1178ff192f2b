package handlers

import (
	"net/http"

	"pharmacatalog_api/internal/catalog/business/export"
	"pharmacatalog_api/pkg/logger"
)

type ExportHandler struct {
	exporter *export.Exporter
	log      logger.Logger
}

func NewExportHandler(exporter *export.Exporter, log logger.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, log: log}
}

// Export streams the catalog as a ZIP download. Failures are reported as
// JSON only while nothing has been sent; later ones abort the connection.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	charset := r.URL.Query().Get("charset")
	if !export.SupportedCharset(charset) {
		writeError(w, http.StatusBadRequest, "Unsupported charset", h.log)
		return
	}

	fw := &firstByteWriter{w: w}
	rows, err := h.exporter.WriteZip(r.Context(), fw, charset)
	if err == nil {
		h.log.Log("Export of %d products sent", rows)
		return
	}
	if !fw.started {
		h.log.Error("Export failed before streaming: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export products", h.log)
		return
	}
	h.log.Error("Export aborted after %d products: %v", rows, err)
	panic(http.ErrAbortHandler)
}

// firstByteWriter sends the download headers together with the first
// chunk of the archive.
type firstByteWriter struct {
	w       http.ResponseWriter
	started bool
}

func (f *firstByteWriter) Write(p []byte) (int, error) {
	if !f.started {
		f.started = true
		h := f.w.Header()
		h.Set("Content-Type", "application/zip")
		h.Set("Content-Disposition", `attachment; filename="`+export.ArchiveName+`"`)
		f.w.WriteHeader(http.StatusOK)
	}
	return f.w.Write(p)
}
