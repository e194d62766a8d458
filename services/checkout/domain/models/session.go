package models

import (
	"time"

	"github.com/google/uuid"

	cartmodels "github.com/ghuser/mintbay/services/cart/domain/models"
)

// Line is one cart line frozen into a checkout session. Checkout keeps its
// own copy so later cart edits cannot change what the user is paying for.
type Line struct {
	ListingID  uuid.UUID `json:"listing_id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int       `json:"quantity"`
}

// CheckoutSession is a pending checkout awaiting external confirmation.
// The user's cart stays intact until the provider confirms payment; only
// the completion path may clear it.
type CheckoutSession struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Lines       []Line    `json:"lines"`
	TotalCents  int64     `json:"total_cents"`
	SuccessURL  string    `json:"success_url"`
	CancelURL   string    `json:"cancel_url"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSession freezes the cart into a pending checkout session.
func NewSession(userID uuid.UUID, cart *cartmodels.Cart, successURL, cancelURL string) *CheckoutSession {
	lines := make([]Line, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, Line{
			ListingID:  l.Item.ListingID,
			Title:      l.Item.Title,
			PriceCents: l.Item.PriceCents,
			Quantity:   l.Quantity,
		})
	}
	return &CheckoutSession{
		ID:         uuid.New(),
		UserID:     userID,
		Lines:      lines,
		TotalCents: cart.TotalCents(),
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		CreatedAt:  time.Now(),
	}
}
