package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mintbay/services/search/application/handlers"
	appsvcs "github.com/ghuser/mintbay/services/search/application/services"
)

// SearchRoutes registers search endpoints on the provided chi router.
// The service container is built by the caller because the index must be
// created before the catalog context (which feeds it listing changes).
func SearchRoutes(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/search", func(r chi.Router) {
		r.Get("/", handlers.NewGetSearchHandler(svcs).Execute)
		r.Get("/related/{id}", handlers.NewGetRelatedHandler(svcs).Execute)
	})
}
