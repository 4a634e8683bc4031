// feedpull pulls REAXML documents from configured agency endpoints on an
// interval and runs them through the ingestion pipeline.
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yourorg/listing-ingest/internal/agency"
	"github.com/yourorg/listing-ingest/internal/env"
	"github.com/yourorg/listing-ingest/internal/feed"
	"github.com/yourorg/listing-ingest/internal/ingest"
	"github.com/yourorg/listing-ingest/internal/logger"
	"github.com/yourorg/listing-ingest/internal/store"
)

func main() {
	env.Load()
	logger.Init()

	dsn := env.Must("DATABASE_URL")
	rawURLs := env.Must("FEED_URLS") // comma separated

	var urls []string
	for _, u := range strings.Split(rawURLs, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	st, err := store.Open(dsn)
	if err != nil {
		logger.L.Fatalf("store open: %v", err)
	}
	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := st.Migrate(setupCtx); err != nil {
		cancelSetup()
		logger.L.Fatalf("store migrate: %v", err)
	}
	cancelSetup()

	orch := &ingest.Orchestrator{
		Store:    st,
		Resolver: &agency.Resolver{Lookup: st.AgencyByCode},
		Log:      logger.L,
	}

	poller := &feed.Poller{
		Client:   feed.NewClient(float64(env.GetInt("FEED_RPS", 2))),
		Ingest:   orch.Ingest,
		URLs:     urls,
		Interval: env.GetDuration("FEED_INTERVAL", 15*time.Minute),
		Log:      logger.L,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := poller.Run(ctx); err != nil {
		logger.L.Fatalf("feed poller: %v", err)
	}
}
