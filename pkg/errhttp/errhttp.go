// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/mintbay/pkg/httpx"
	cartdomain "github.com/ghuser/mintbay/services/cart/domain"
	catalogdomain "github.com/ghuser/mintbay/services/catalog/domain"
	checkoutdomain "github.com/ghuser/mintbay/services/checkout/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, catalogdomain.ErrListingNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, catalogdomain.ErrListingAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, catalogdomain.ErrInvalidListing):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, cartdomain.ErrInsufficientEditions):
		return http.StatusConflict // 409
	case errors.Is(err, checkoutdomain.ErrCartEmpty):
		return http.StatusConflict // 409
	case errors.Is(err, checkoutdomain.ErrSessionNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, checkoutdomain.ErrProviderUnavailable):
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
