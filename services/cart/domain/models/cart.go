package models

import (
	"time"

	"github.com/google/uuid"

	catalogmodels "github.com/ghuser/mintbay/services/catalog/domain/models"
)

// LineItem is the read-only snapshot of a listing taken when it entered the
// cart. Price changes after add-time do not retroactively change the cart.
type LineItem struct {
	ListingID  uuid.UUID `json:"listing_id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	Category   string    `json:"category"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatorID  uuid.UUID `json:"creator_id"`
}

// SnapshotOf captures the cart-relevant fields of a listing.
func SnapshotOf(l *catalogmodels.Listing) LineItem {
	return LineItem{
		ListingID:  l.ID,
		Title:      l.Title.String(),
		PriceCents: l.PriceCents,
		Category:   l.Category,
		ImageURL:   l.ImageURL,
		CreatorID:  l.Creator.ID,
	}
}

// Line pairs a listing snapshot with a quantity. Quantity is always >= 1;
// a line that would reach zero is removed instead.
type Line struct {
	Item     LineItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// Cart is an ordered sequence of lines keyed by listing ID — no two lines
// share a listing. All methods are pure state transitions: no I/O, no side
// effects, so the reducer is testable without any storage fake. Persistence
// wraps these transitions at the application layer.
type Cart struct {
	UserID    uuid.UUID `json:"user_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart returns an empty cart for the given user.
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID}
}

// Add inserts a line with quantity 1 at the end of the sequence, or
// increments the existing line for the same listing. The reducer itself
// does not clamp against availability; callers enforce that before adding.
func (c *Cart) Add(item LineItem) {
	if i := c.indexOf(item.ListingID); i >= 0 {
		c.Lines[i].Quantity++
		c.touch()
		return
	}
	c.Lines = append(c.Lines, Line{Item: item, Quantity: 1})
	c.touch()
}

// Remove deletes the line for the given listing. No-op when absent.
func (c *Cart) Remove(listingID uuid.UUID) {
	i := c.indexOf(listingID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.touch()
}

// SetQuantity sets the line's quantity. A quantity of zero or less is
// equivalent to Remove — no zero-quantity lines are ever retained.
func (c *Cart) SetQuantity(listingID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.Remove(listingID)
		return
	}
	if i := c.indexOf(listingID); i >= 0 {
		c.Lines[i].Quantity = quantity
		c.touch()
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
	c.touch()
}

// Quantity returns the quantity for the given listing, zero when absent.
func (c *Cart) Quantity(listingID uuid.UUID) int {
	if i := c.indexOf(listingID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

// TotalCents sums price × quantity over all lines.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Item.PriceCents * int64(line.Quantity)
	}
	return total
}

// ItemCount sums quantities over all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) indexOf(listingID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.Item.ListingID == listingID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
