package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mintbay/pkg/app"
	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/mintbay/services/catalog/application/services"
)

// CatalogRoutes registers catalog endpoints on the provided chi router and
// returns the service container so sibling contexts (search, checkout) can
// share the same catalog snapshot.
func CatalogRoutes(r chi.Router, a *app.Application, indexer appsvcs.Indexer) *appsvcs.Services {
	svcs := appsvcs.New(a, indexer)
	r.Route("/listings", func(r chi.Router) {
		r.Get("/", handlers.NewGetListingsHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetListingHandler(svcs).Execute)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Post("/", handlers.NewPostListingHandler(svcs).Execute)
		})
	})
	return svcs
}
