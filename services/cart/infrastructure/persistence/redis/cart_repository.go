// Package redis persists carts as JSON documents in Redis.
//
// Key layout: "cart:{userID}". Carts expire after 30 days of inactivity;
// every Save refreshes the TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ghuser/mintbay/pkg/cache"
	"github.com/ghuser/mintbay/services/cart/domain/models"
)

const (
	cartKeyPrefix = "cart:"

	// cartTTL is the inactivity window after which an abandoned cart is
	// dropped. Refreshed on every write.
	cartTTL = 30 * 24 * time.Hour
)

// CartRepository implements repositories.CartRepository on Redis.
type CartRepository struct {
	client *cache.RedisClient
}

// NewCartRepository returns a CartRepository backed by the given RedisClient.
func NewCartRepository(client *cache.RedisClient) *CartRepository {
	return &CartRepository{client: client}
}

// Get loads the user's cart. A missing key yields a fresh empty cart.
func (r *CartRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	data, err := r.client.Client().Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return models.NewCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &cart, nil
}

// Save writes the cart document and refreshes its TTL. An empty cart is
// stored too — emptiness is a valid cart state, distinct from deletion.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.client.Client().Set(ctx, cartKey(cart.UserID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the stored cart. Deleting an absent cart is a no-op.
func (r *CartRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Client().Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func cartKey(userID uuid.UUID) string {
	return cartKeyPrefix + userID.String()
}
