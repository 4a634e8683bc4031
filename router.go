package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/yourorg/listing-ingest/http"
)

func BuildRouter(ingestDeps httpapi.IngestDeps, agencyDeps httpapi.AgenciesDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(60, 1*time.Minute)) // feeds are batchy, not chatty
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterIngest(r, ingestDeps)
	httpapi.RegisterAgencies(r, agencyDeps)

	return r
}
