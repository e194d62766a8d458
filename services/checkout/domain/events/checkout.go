package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the checkout context.
const (
	// TopicCheckoutCompleted is published once the payment provider has
	// confirmed a checkout session as paid. Consumers clear the user's
	// cart and decrement edition availability.
	TopicCheckoutCompleted = "checkout.completed"
)

// CompletedLine is one purchased line inside a CheckoutCompletedEvent.
type CompletedLine struct {
	ListingID uuid.UUID `json:"listing_id"`
	Quantity  int       `json:"quantity"`
}

// CheckoutCompletedEvent is published after external payment confirmation.
// Until a consumer processes it, the user's cart remains untouched.
type CheckoutCompletedEvent struct {
	EventID     uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version     int             `json:"version"`  // Schema version; increment on breaking changes
	SessionID   uuid.UUID       `json:"session_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Lines       []CompletedLine `json:"lines"`
	TotalCents  int64           `json:"total_cents"`
	CompletedAt time.Time       `json:"completed_at"`
}
