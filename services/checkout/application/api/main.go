package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mintbay/pkg/app"
	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/pkg/config"
	cartsvcs "github.com/ghuser/mintbay/services/cart/application/services"
	"github.com/ghuser/mintbay/services/checkout/application/handlers"
	appsvcs "github.com/ghuser/mintbay/services/checkout/application/services"
)

// CheckoutRoutes registers checkout endpoints on the provided chi router.
// Initiation requires an authenticated user; the webhook is called by the
// payment provider and carries its own session reference instead.
func CheckoutRoutes(r chi.Router, a *app.Application, cfg *config.Config, carts *cartsvcs.Services) *appsvcs.Services {
	svcs := appsvcs.New(a, cfg, carts.Cart)
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/webhook", handlers.NewWebhookHandler(svcs).Execute)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Post("/", handlers.NewPostCheckoutHandler(svcs).Execute)
		})
	})
	return svcs
}
