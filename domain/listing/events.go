package listing

import (
	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/domain"
)

type EventType string

const (
	EventTypeCreated   EventType = "listingCreated"
	EventTypeSold      EventType = "listingSold"
	EventTypeCancelled EventType = "listingCancelled"
)

// Event is the notification payload published after a listing state change
// has been committed. Buyer is set for sold events only.
type Event struct {
	Type      EventType        `json:"type"`
	ListingId domain.ListingId `json:"listingId"`
	Asset     AssetId          `json:"asset"`
	Price     string           `json:"price,omitempty"`
	// DisplayPrice is Price in whole token units.
	DisplayPrice string         `json:"displayPrice,omitempty"`
	Seller       domain.Address `json:"seller"`
	Buyer        domain.Address `json:"buyer,omitempty"`
}

// Emitter delivers events fire-and-forget, strictly after the state change
// they describe. Delivery failures must not fail the enclosing operation.
type Emitter interface {
	Emit(ctx ctx.Ctx, ev *Event)
}
