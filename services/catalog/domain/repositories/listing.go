package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/services/catalog/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// ListingRepository is the persistence interface for the Listing aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ListingRepository interface {
	Save(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)

	// FindAll retrieves listings ordered by creation time (newest first).
	// Pass QueryOpts{} for an unpaginated read of the whole catalog.
	FindAll(ctx context.Context, opts QueryOpts) ([]*models.Listing, error)

	// Update persists price/listed/counter changes to an existing Listing.
	Update(ctx context.Context, listing *models.Listing) error

	// DecrementEditions atomically reduces editions_available by qty,
	// refusing to go below zero. Returns the remaining availability.
	DecrementEditions(ctx context.Context, id uuid.UUID, qty int) (int, error)
}
