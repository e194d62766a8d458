package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Creator is a display-only reference to the profile that minted a listing.
// It is owned by the accounts system; the catalog never mutates it.
type Creator struct {
	ID        uuid.UUID
	Name      string
	AvatarURL string
}

// Listing is the core aggregate for this bounded context: one sellable
// digital collectible. Lifecycle is owned by the minting flow; the catalog
// reads, filters, and serves it.
type Listing struct {
	ID          uuid.UUID
	Title       Title
	Description string
	// PriceCents is the price in minor currency units. Never negative.
	PriceCents int64
	// ImageURL points at the rendered asset; may be a placeholder.
	ImageURL string
	// Category is one label from an open set; matched case-insensitively.
	Category string
	// Tags keep insertion order for display; matching treats them as a set.
	Tags              []string
	EditionsTotal     int
	EditionsAvailable int
	Likes             int64
	Views             int64
	// Listed controls marketplace visibility. An unlisted listing still
	// exists (it may be owned by a user) but is excluded from marketplace
	// queries.
	Listed    bool
	CreatedAt time.Time
	Creator   Creator
}

// NewListing constructs a valid Listing aggregate with generated ID and
// current timestamp. New listings start fully available and listed.
func NewListing(title Title, description string, priceCents int64, imageURL, category string, tags []string, editions int, creator Creator) (*Listing, error) {
	l := &Listing{
		ID:                uuid.New(),
		Title:             title,
		Description:       description,
		PriceCents:        priceCents,
		ImageURL:          imageURL,
		Category:          category,
		Tags:              append([]string(nil), tags...),
		EditionsTotal:     editions,
		EditionsAvailable: editions,
		Listed:            true,
		CreatedAt:         time.Now().UTC(),
		Creator:           creator,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks the structural invariants of the aggregate.
func (l *Listing) Validate() error {
	if l.PriceCents < 0 {
		return fmt.Errorf("price must not be negative, got %d", l.PriceCents)
	}
	if l.EditionsTotal < 0 {
		return fmt.Errorf("editions total must not be negative, got %d", l.EditionsTotal)
	}
	if l.EditionsAvailable < 0 || l.EditionsAvailable > l.EditionsTotal {
		return fmt.Errorf("editions available must be within [0, %d], got %d", l.EditionsTotal, l.EditionsAvailable)
	}
	if l.Likes < 0 || l.Views < 0 {
		return fmt.Errorf("likes and views must not be negative")
	}
	return nil
}

// HasTag reports whether the listing carries the given tag, case-insensitively.
func (l *Listing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// SharesTag reports whether the listing shares at least one tag with other.
func (l *Listing) SharesTag(other *Listing) bool {
	for _, t := range other.Tags {
		if l.HasTag(t) {
			return true
		}
	}
	return false
}
