package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpapi "github.com/yourorg/listing-ingest/http"
	"github.com/yourorg/listing-ingest/internal/agency"
	"github.com/yourorg/listing-ingest/internal/env"
	"github.com/yourorg/listing-ingest/internal/events"
	"github.com/yourorg/listing-ingest/internal/ingest"
	"github.com/yourorg/listing-ingest/internal/logger"
	"github.com/yourorg/listing-ingest/internal/redisx"
	"github.com/yourorg/listing-ingest/internal/store"
)

func main() {
	env.Load()
	logger.Init()

	port := env.GetInt("PORT", 4003)
	dsn := env.Must("DATABASE_URL")

	st, err := store.Open(dsn)
	if err != nil {
		logger.L.Fatalf("store open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.Migrate(ctx); err != nil {
		logger.L.Fatalf("store migrate: %v", err)
	}

	resolver := &agency.Resolver{
		Lookup:   st.AgencyByCode,
		CacheTTL: env.GetDuration("AGENCY_CACHE_TTL", 10*time.Minute),
	}
	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		rc := redisx.New(addr, env.Get("REDIS_PASSWORD", ""), env.GetInt("REDIS_DB", 0))
		if err := rc.Ping(ctx); err != nil {
			logger.L.Warnf("redis unavailable, agency cache disabled: %v", err)
		} else {
			resolver.Redis = rc
		}
	}

	orch := &ingest.Orchestrator{
		Store:    st,
		Resolver: resolver,
		Pub:      events.NewInMemory(256),
		Log:      logger.L,
	}

	router := BuildRouter(
		httpapi.IngestDeps{Orchestrator: orch},
		httpapi.AgenciesDeps{Upsert: st.UpsertAgency, Resolver: resolver},
	)

	logger.L.Infof("listing-ingest listening on :%d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), logger.Middleware(router)); err != nil {
		logger.L.Fatal(err)
	}
}
