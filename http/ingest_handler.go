package httpapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/listing-ingest/internal/ingest"
)

const maxBodyBytes = 16 << 20

type IngestDeps struct {
	Orchestrator *ingest.Orchestrator
}

// RegisterIngest mounts the feed submission endpoint. The pipeline always
// produces a report; this layer only decides the response status from the
// aggregate counts: all-skipped is a harder failure than some-skipped.
func RegisterIngest(r chi.Router, d IngestDeps) {
	r.Post("/ingest/reaxml", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
		if err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "body_read_failed", "detail": err.Error()})
			return
		}
		if len(body) == 0 {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "empty_body"})
			return
		}

		report, err := d.Orchestrator.Ingest(req.Context(), body)
		if err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_document", "detail": err.Error(), "report": report})
			return
		}

		render.Status(req, statusFor(report))
		render.JSON(w, req, report)
	})
}

func statusFor(r ingest.Report) int {
	switch {
	case r.TotalProcessed == 0 || r.Failed == 0:
		return http.StatusOK
	case r.Successful == 0:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusMultiStatus
	}
}
