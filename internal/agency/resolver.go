// Package agency resolves feed agency codes against the pre-registered
// agency table, with an optional redis cache in front.
package agency

import (
	"context"
	"time"

	"github.com/yourorg/listing-ingest/internal/redisx"
	"github.com/yourorg/listing-ingest/internal/store"
)

type Resolver struct {
	Lookup func(ctx context.Context, code string) (*store.Agency, error)
	Redis  *redisx.Client
	// TTL and negative-cache tuning; zero values fall back to defaults.
	CacheTTL    time.Duration
	NegativeTTL time.Duration
}

const (
	defaultCacheTTL    = 10 * time.Minute
	defaultNegativeTTL = 30 * time.Second
)

// Resolve returns the agency for a feed code, or (nil, nil) when the code
// is not registered. A nil Redis degrades to direct lookups.
func (r *Resolver) Resolve(ctx context.Context, code string) (*store.Agency, error) {
	if r.Redis == nil {
		return r.Lookup(ctx, code)
	}

	missKey := "agency:miss:" + code
	cacheKey := "agency:code:" + code

	if ok, _ := r.Redis.Exists(ctx, missKey); ok {
		return nil, nil
	}
	var cached store.Agency
	if ok, _ := r.Redis.GetJSON(ctx, cacheKey, &cached); ok {
		return &cached, nil
	}

	a, err := r.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if a == nil {
		// Short miss cooldown so a feed full of one unregistered code
		// does not hammer the store.
		_ = r.Redis.Set(ctx, missKey, "1", r.negativeTTL())
		return nil, nil
	}
	_ = r.Redis.SetJSON(ctx, cacheKey, a, r.cacheTTL())
	return a, nil
}

// Invalidate drops both cache entries for a code, for use after agency
// registration.
func (r *Resolver) Invalidate(ctx context.Context, code string) {
	if r.Redis == nil {
		return
	}
	_ = r.Redis.Del(ctx, "agency:code:"+code)
	_ = r.Redis.Del(ctx, "agency:miss:"+code)
}

func (r *Resolver) cacheTTL() time.Duration {
	if r.CacheTTL > 0 {
		return r.CacheTTL
	}
	return defaultCacheTTL
}

func (r *Resolver) negativeTTL() time.Duration {
	if r.NegativeTTL > 0 {
		return r.NegativeTTL
	}
	return defaultNegativeTTL
}
