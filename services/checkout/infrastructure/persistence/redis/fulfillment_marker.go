package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/cache"
)

const fulfillmentKeyPrefix = "checkout:fulfilled:"

// fulfillmentMarkerTTL must outlive bus redeliveries and webhook replays
// for the same session.
const fulfillmentMarkerTTL = 24 * time.Hour

// FulfillmentMarker records which checkout sessions have already had their
// edition decrements applied, so redelivered completion events do not
// decrement availability twice.
type FulfillmentMarker struct {
	client *cache.RedisClient
}

// NewFulfillmentMarker returns a FulfillmentMarker backed by Redis.
func NewFulfillmentMarker(client *cache.RedisClient) *FulfillmentMarker {
	return &FulfillmentMarker{client: client}
}

// FirstFulfillment atomically claims the session and reports whether this
// delivery is the first one. Subsequent calls for the same session return
// false until the marker expires.
func (m *FulfillmentMarker) FirstFulfillment(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	first, err := m.client.Client().SetNX(ctx, fulfillmentKeyPrefix+sessionID.String(), "1", fulfillmentMarkerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim fulfillment: %w", err)
	}
	return first, nil
}
