package api

import (
	"context"
	"net/http"

	"github.com/robobook/backend/internal/ingest"
	"github.com/robobook/backend/internal/log"
)

// Ingester runs the sitemap ingestion pipeline.
// Implemented by *ingest.Pipeline.
type Ingester interface {
	Run(ctx context.Context) (ingest.Report, error)
}

// ingestHandler triggers textbook ingestion over HTTP.
type ingestHandler struct {
	pipeline Ingester
	logger   log.Logger
}

// run handles POST /api/ingest. The run is synchronous; the response is the
// full ingestion report. Re-ingesting is safe, existing chunks for each page
// are replaced.
func (h *ingestHandler) run(w http.ResponseWriter, r *http.Request) {
	report, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.logger.Error("ingestion run failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ingestion_failed", "Ingestion failed")
		return
	}

	h.logger.Info("ingestion complete",
		"pages", report.Pages,
		"failed", report.PagesFailed,
		"empty", report.PagesEmpty,
		"chunks", report.Chunks,
	)
	writeJSON(w, http.StatusOK, report)
}
