package events

import (
	"context"
)

// ListingChanged is emitted after every successful write so downstream read
// paths (search indexing, cache invalidation) can react.
type ListingChanged struct {
	ListingID  string
	AgencyCode string
	UniqueID   string
	Action     string // created | updated | status_changed
}

type Publisher interface {
	PublishListingChanged(ctx context.Context, evt ListingChanged)
	SubscribeListingChanged() <-chan ListingChanged
}

type inMemory struct{ ch chan ListingChanged }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan ListingChanged, buffer)}
}

// PublishListingChanged never blocks; events are dropped when the buffer is
// full.
func (m *inMemory) PublishListingChanged(_ context.Context, evt ListingChanged) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeListingChanged() <-chan ListingChanged { return m.ch }
