package domain

import "errors"

// Sentinel errors for the cart domain. Use errors.Is() to check these.
var (
	// ErrInsufficientEditions indicates the requested quantity exceeds the
	// listing's available editions.
	ErrInsufficientEditions = errors.New("insufficient editions available")
)
