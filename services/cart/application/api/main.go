package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mintbay/pkg/app"
	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/services/cart/application/handlers"
	appsvcs "github.com/ghuser/mintbay/services/cart/application/services"
)

// CartRoutes registers cart endpoints on the provided chi router. All cart
// operations require an authenticated session. Returns the service
// container so the checkout context can read and clear carts.
func CartRoutes(r chi.Router, a *app.Application, listings appsvcs.ListingProvider) *appsvcs.Services {
	svcs := appsvcs.New(a, listings)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handlers.NewGetCartHandler(svcs).Execute)
			r.Delete("/", handlers.NewClearCartHandler(svcs).Execute)
			r.Post("/items", handlers.NewPostItemHandler(svcs).Execute)
			r.Put("/items/{id}", handlers.NewPutItemHandler(svcs).Execute)
			r.Delete("/items/{id}", handlers.NewDeleteItemHandler(svcs).Execute)
		})
	})
	return svcs
}
