package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	cartdomain "github.com/ghuser/mintbay/services/cart/domain"
	"github.com/ghuser/mintbay/services/cart/domain/models"
	"github.com/ghuser/mintbay/services/cart/domain/repositories"
	catalogmodels "github.com/ghuser/mintbay/services/catalog/domain/models"
)

// ListingProvider supplies the listing snapshot taken when an item enters
// the cart. The catalog context implements it.
type ListingProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalogmodels.Listing, error)
}

// CartService wraps the pure cart reducer with persistence and availability
// checks. Every mutation is a load → reduce → save round-trip; Save is
// write-through so the cart survives restarts.
//
// Mutations for the same user are serialized with a per-user lock: HTTP
// handlers run concurrently, and the read-modify-write sequence on the
// stored document must not interleave.
type CartService struct {
	repo     repositories.CartRepository
	listings ListingProvider

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewCartService returns a CartService wired with the given repository and
// listing provider.
func NewCartService(repo repositories.CartRepository, listings ListingProvider) *CartService {
	return &CartService{
		repo:     repo,
		listings: listings,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// Get returns the user's cart, empty when nothing was ever added.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// AddItem puts one edition of the listing into the cart: a new line with
// quantity 1, or +1 on the existing line. The resulting quantity is checked
// against the listing's available editions; exceeding it returns
// ErrInsufficientEditions and leaves the cart unchanged.
func (s *CartService) AddItem(ctx context.Context, userID, listingID uuid.UUID) (*models.Cart, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("resolve listing: %w", err)
	}

	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		if cart.Quantity(listingID)+1 > listing.EditionsAvailable {
			return fmt.Errorf("%w: %d of %q available", cartdomain.ErrInsufficientEditions,
				listing.EditionsAvailable, listing.Title)
		}
		cart.Add(models.SnapshotOf(listing))
		return nil
	})
}

// SetQuantity sets the line's quantity; zero or less removes the line.
// Raising the quantity re-checks availability; lowering or removing never
// fails on availability.
func (s *CartService) SetQuantity(ctx context.Context, userID, listingID uuid.UUID, quantity int) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		if quantity > cart.Quantity(listingID) {
			listing, err := s.listings.GetByID(ctx, listingID)
			if err != nil {
				return fmt.Errorf("resolve listing: %w", err)
			}
			if quantity > listing.EditionsAvailable {
				return fmt.Errorf("%w: %d of %q available", cartdomain.ErrInsufficientEditions,
					listing.EditionsAvailable, listing.Title)
			}
		}
		cart.SetQuantity(listingID, quantity)
		return nil
	})
}

// RemoveItem deletes the line for the listing; absent lines are a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, listingID uuid.UUID) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		cart.Remove(listingID)
		return nil
	})
}

// Clear empties the cart. Called by the user directly, or by the checkout
// completion consumer once payment is externally confirmed — never at
// checkout initiation.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := s.mutate(ctx, userID, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
	return err
}

// mutate serializes a load → reduce → save round-trip for one user.
func (s *CartService) mutate(ctx context.Context, userID uuid.UUID, fn func(*models.Cart) error) (*models.Cart, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) userLock(userID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
