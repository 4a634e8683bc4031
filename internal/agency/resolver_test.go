package agency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/listing-ingest/internal/store"
)

func TestResolveWithoutRedis(t *testing.T) {
	calls := 0
	r := &Resolver{
		Lookup: func(_ context.Context, code string) (*store.Agency, error) {
			calls++
			if code == "XNWXNW" {
				return &store.Agency{ID: "agency-1", Code: code}, nil
			}
			return nil, nil
		},
	}

	a, err := r.Resolve(context.Background(), "XNWXNW")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "agency-1", a.ID)

	// Unregistered codes resolve to (nil, nil), not an error.
	a, err = r.Resolve(context.Background(), "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, a)

	// No cache: every resolve hits the lookup.
	_, _ = r.Resolve(context.Background(), "XNWXNW")
	assert.Equal(t, 3, calls)
}

func TestResolvePropagatesLookupError(t *testing.T) {
	boom := errors.New("connection refused")
	r := &Resolver{
		Lookup: func(context.Context, string) (*store.Agency, error) { return nil, boom },
	}

	_, err := r.Resolve(context.Background(), "XNWXNW")
	assert.ErrorIs(t, err, boom)
}

func TestInvalidateWithoutRedisIsNoOp(t *testing.T) {
	r := &Resolver{}
	r.Invalidate(context.Background(), "XNWXNW")
}

func TestTTLDefaults(t *testing.T) {
	r := &Resolver{}
	assert.Equal(t, defaultCacheTTL, r.cacheTTL())
	assert.Equal(t, defaultNegativeTTL, r.negativeTTL())

	r.CacheTTL = 1
	r.NegativeTTL = 2
	assert.NotEqual(t, defaultCacheTTL, r.cacheTTL())
	assert.NotEqual(t, defaultNegativeTTL, r.negativeTTL())
}
