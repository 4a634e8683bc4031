package feed

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/listing-ingest/internal/ingest"
)

// Poller pulls every configured endpoint on an interval and hands each
// document to the ingestion pipeline. One endpoint failing never stops the
// loop.
type Poller struct {
	Client   *Client
	Ingest   func(ctx context.Context, doc []byte) (ingest.Report, error)
	URLs     []string
	Interval time.Duration
	Log      *logrus.Logger
}

func (p *Poller) validate() error {
	if p.Client == nil {
		return errors.New("poller missing feed client")
	}
	if p.Ingest == nil {
		return errors.New("poller missing ingest func")
	}
	if len(p.URLs) == 0 {
		return errors.New("poller requires at least one feed url")
	}
	return nil
}

// Run executes one pull immediately, then keeps pulling on the interval
// until the context is cancelled. A non-positive interval means one-shot.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.Interval <= 0 {
		return p.RunOnce(ctx)
	}
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.logf(logrus.Fields{"urls": len(p.URLs), "interval": p.Interval.String()}, "feed poller starting")
	if err := p.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logf(logrus.Fields{"error": err.Error()}, "feed poller initial run error")
	}
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := p.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				p.logf(logrus.Fields{"error": err.Error()}, "feed poller iteration error")
			}
		}
	}
}

// RunOnce pulls every endpoint once, joining per-endpoint errors.
func (p *Poller) RunOnce(ctx context.Context) error {
	if err := p.validate(); err != nil {
		return err
	}
	var joined error
	for _, url := range p.URLs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		doc, err := p.Client.Fetch(ctx, url)
		if err != nil {
			p.logf(logrus.Fields{"url": url, "error": err.Error()}, "feed fetch failed")
			joined = errors.Join(joined, err)
			continue
		}
		report, err := p.Ingest(ctx, doc)
		if err != nil {
			p.logf(logrus.Fields{"url": url, "error": err.Error()}, "feed document rejected")
			joined = errors.Join(joined, err)
			continue
		}
		p.logf(logrus.Fields{
			"url":        url,
			"processed":  report.TotalProcessed,
			"successful": report.Successful,
			"failed":     report.Failed,
		}, "feed pulled")
	}
	return joined
}

func (p *Poller) logf(fields logrus.Fields, msg string) {
	if p.Log == nil {
		return
	}
	p.Log.WithFields(fields).Info(msg)
}
