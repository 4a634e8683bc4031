// Package feed pulls REAXML documents from agency endpoints.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const maxDocumentBytes = 8 << 20 // feeds are bounded; anything larger is broken

type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

// NewClient builds a pull client capped at reqPerSec outbound requests so a
// large endpoint list cannot hammer agency servers.
func NewClient(reqPerSec float64) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil

	if reqPerSec <= 0 {
		reqPerSec = 2
	}
	return &Client{
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

// Fetch retrieves one REAXML document.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/xml, text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("feed %s: status %d", url, resp.StatusCode)
	}
	return readAllLimit(resp.Body, maxDocumentBytes)
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("feed document too large")
	}
	return b, nil
}
