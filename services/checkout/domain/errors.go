// Package domain contains sentinel errors for the checkout bounded context.
package domain

import "errors"

var (
	// ErrCartEmpty is returned when checkout is initiated on an empty cart.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrSessionNotFound is returned when no pending checkout session
	// exists for the given id.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrProviderUnavailable is returned when the payment provider cannot
	// be reached or rejects the initiation request.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)
