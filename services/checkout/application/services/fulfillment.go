package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/logger"
	domainevents "github.com/ghuser/mintbay/services/checkout/domain/events"
)

// EditionDecrementer reduces a listing's available editions. Implemented by
// the catalog's postgres repository.
type EditionDecrementer interface {
	DecrementEditions(ctx context.Context, id uuid.UUID, qty int) (int, error)
}

// CartCleaner removes a user's stored cart. Implemented by the cart's Redis
// repository; deleting an absent cart is a no-op, so calls are idempotent.
type CartCleaner interface {
	Delete(ctx context.Context, userID uuid.UUID) error
}

// ReadModelInvalidator drops a listing's cached read model after its
// availability changed.
type ReadModelInvalidator interface {
	Delete(ctx context.Context, listingID uuid.UUID) error
}

// FulfillmentMarker claims a session's fulfillment exactly once across
// redeliveries.
type FulfillmentMarker interface {
	FirstFulfillment(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// FulfillmentService consumes checkout completion events. It is the only
// path that clears a cart: payment has been externally confirmed.
//
// Handle must stay idempotent because the bus redelivers on failure and the
// provider may replay webhooks. Edition decrements are not idempotent by
// themselves, so they are guarded by a per-session marker; the cart clear
// and cache invalidation are idempotent and run on every delivery.
type FulfillmentService struct {
	listings EditionDecrementer
	carts    CartCleaner
	cache    ReadModelInvalidator
	marker   FulfillmentMarker
	log      logger.Logger
}

// NewFulfillmentService wires the completion consumer.
func NewFulfillmentService(listings EditionDecrementer, carts CartCleaner, cache ReadModelInvalidator, marker FulfillmentMarker, log logger.Logger) *FulfillmentService {
	return &FulfillmentService{listings: listings, carts: carts, cache: cache, marker: marker, log: log}
}

// Handle processes one checkout.completed delivery: on the first delivery
// for a session it decrements edition availability per purchased line, then
// (on every delivery) clears the buyer's cart. A failed cart clear returns
// an error so the bus retries; the marker keeps the retry from decrementing
// again.
func (s *FulfillmentService) Handle(ctx context.Context, msg *message.Message) error {
	var evt domainevents.CheckoutCompletedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode completion event: %w", err)
	}

	first, err := s.marker.FirstFulfillment(ctx, evt.SessionID)
	if err != nil {
		// Cannot tell whether this session was fulfilled; retry later.
		return err
	}

	if first {
		s.decrement(ctx, evt)
	} else {
		s.log.InfoContext(ctx, "completion already fulfilled, skipping decrements",
			"session_id", evt.SessionID)
	}

	if err := s.carts.Delete(ctx, evt.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.log.InfoContext(ctx, "cart cleared after checkout",
		"user_id", evt.UserID, "session_id", evt.SessionID)
	return nil
}

func (s *FulfillmentService) decrement(ctx context.Context, evt domainevents.CheckoutCompletedEvent) {
	for _, line := range evt.Lines {
		remaining, err := s.listings.DecrementEditions(ctx, line.ListingID, line.Quantity)
		if err != nil {
			// Oversell or a gone listing: the sale already happened, so
			// log and keep going rather than blocking the cart clear.
			s.log.WarnContext(ctx, "edition decrement failed",
				"listing_id", line.ListingID, "quantity", line.Quantity, "error", err)
			continue
		}
		if err := s.cache.Delete(ctx, line.ListingID); err != nil {
			s.log.WarnContext(ctx, "cache invalidation failed after purchase",
				"listing_id", line.ListingID, "error", err)
		}
		s.log.InfoContext(ctx, "editions decremented",
			"listing_id", line.ListingID, "remaining", remaining)
	}
}
