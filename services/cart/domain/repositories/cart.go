package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/services/cart/domain/models"
)

// CartRepository persists one cart per user. The cart context exclusively
// owns the stored document; reads always return a cart (an empty one when
// nothing is stored — absence is not an error).
type CartRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)

	// Save writes the whole cart document. Called after every mutation so
	// the cart survives process restarts (write-through).
	Save(ctx context.Context, cart *models.Cart) error

	// Delete removes the stored cart entirely.
	Delete(ctx context.Context, userID uuid.UUID) error
}
