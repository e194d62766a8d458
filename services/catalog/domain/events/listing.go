package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the catalog context.
const (
	// TopicListingCreated is published when a Listing is first persisted.
	TopicListingCreated = "listing.created"
	// TopicListingUpdated is published when price, visibility, or
	// availability of a Listing changes.
	TopicListingUpdated = "listing.updated"
)

// ListingCreatedEvent is published after a new Listing is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicListingCreated).
type ListingCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ListingID  uuid.UUID `json:"listing_id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	Category   string    `json:"category"`
	Listed     bool      `json:"listed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListingUpdatedEvent is published after an existing Listing changes.
// Carries the post-update state of the mutable fields.
type ListingUpdatedEvent struct {
	EventID           uuid.UUID `json:"event_id"`
	Version           int       `json:"version"`
	ListingID         uuid.UUID `json:"listing_id"`
	PriceCents        int64     `json:"price_cents"`
	Listed            bool      `json:"listed"`
	EditionsAvailable int       `json:"editions_available"`
	OccurredAt        time.Time `json:"occurred_at"`
}
