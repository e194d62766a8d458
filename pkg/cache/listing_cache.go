package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ListingCacheTTL is the time-to-live for cached listings.
	ListingCacheTTL = 24 * time.Hour

	listingCacheKeyPrefix = "listing"
)

// CachedListing is the denormalized read model stored in Redis.
// Fields are stored as a Redis hash. It carries just enough of the listing
// to serve detail reads without touching Postgres; tags and description
// stay in the primary store.
type CachedListing struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	PriceCents        int64     `json:"price_cents"`
	Category          string    `json:"category"`
	Listed            bool      `json:"listed"`
	EditionsAvailable int       `json:"editions_available"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListingCache provides structured read/write operations for listing cache entries.
// Key format: "listing:{listingID}"
type ListingCache struct {
	client *RedisClient
}

// NewListingCache creates a new ListingCache backed by the given RedisClient.
func NewListingCache(r *RedisClient) *ListingCache {
	return &ListingCache{client: r}
}

// Get retrieves a cached listing by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ListingCache) Get(ctx context.Context, listingID uuid.UUID) (*CachedListing, error) {
	key := c.key(listingID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	price, err := strconv.ParseInt(vals["price_cents"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse price_cents: %w", err)
	}
	available, err := strconv.Atoi(vals["editions_available"])
	if err != nil {
		return nil, fmt.Errorf("cache parse editions_available: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}

	return &CachedListing{
		ID:                id,
		Title:             vals["title"],
		PriceCents:        price,
		Category:          vals["category"],
		Listed:            vals["listed"] == "1",
		EditionsAvailable: available,
		CreatedAt:         createdAt,
	}, nil
}

// Set writes a cached listing as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ListingCache) Set(ctx context.Context, l *CachedListing) error {
	key := c.key(l.ID)
	listed := "0"
	if l.Listed {
		listed = "1"
	}
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", l.ID.String(),
		"title", l.Title,
		"price_cents", strconv.FormatInt(l.PriceCents, 10),
		"category", l.Category,
		"listed", listed,
		"editions_available", strconv.Itoa(l.EditionsAvailable),
		"created_at", l.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ListingCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached listing.
func (c *ListingCache) Delete(ctx context.Context, listingID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(listingID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "listing:{listingID}"
func (c *ListingCache) key(listingID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", listingCacheKeyPrefix, listingID)
}
