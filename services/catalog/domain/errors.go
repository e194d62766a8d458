package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	// ErrListingNotFound indicates the requested listing does not exist.
	ErrListingNotFound = errors.New("listing not found")

	// ErrListingAlreadyExists indicates a listing with the same ID was already persisted.
	ErrListingAlreadyExists = errors.New("listing already exists")

	// ErrInvalidListing indicates the listing violates domain constraints.
	ErrInvalidListing = errors.New("invalid listing")
)
