package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/listing-ingest/internal/agency"
	"github.com/yourorg/listing-ingest/internal/store"
)

type AgenciesDeps struct {
	Upsert   func(ctx context.Context, code, name string) (store.Agency, error)
	Resolver *agency.Resolver // optional, for cache invalidation
}

type agencyRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RegisterAgencies mounts the out-of-band agency registration endpoint the
// feed contract relies on.
func RegisterAgencies(r chi.Router, d AgenciesDeps) {
	r.Put("/agencies", func(w http.ResponseWriter, req *http.Request) {
		var body agencyRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}
		if body.Code == "" {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "code_required"})
			return
		}
		a, err := d.Upsert(req.Context(), body.Code, body.Name)
		if err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "upsert_failed", "detail": err.Error()})
			return
		}
		if d.Resolver != nil {
			d.Resolver.Invalidate(req.Context(), body.Code)
		}
		render.JSON(w, req, map[string]any{"ok": true, "id": a.ID, "code": a.Code, "name": a.Name})
	})
}
