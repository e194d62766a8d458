package services

import (
	"github.com/ghuser/mintbay/pkg/app"
	"github.com/ghuser/mintbay/pkg/config"
	"github.com/ghuser/mintbay/services/checkout/infrastructure/payment"
	"github.com/ghuser/mintbay/services/checkout/infrastructure/persistence/redis"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Checkout *CheckoutService
}

// New wires the checkout services with the payment provider client and the
// Redis-backed pending session store.
func New(a *app.Application, cfg *config.Config, carts CartReader) *Services {
	client := payment.NewClient(cfg.PaymentProviderURL, cfg.PaymentAPIKey, cfg.PaymentTimeout)
	sessions := redis.NewSessionStore(a.Redis, cfg.CheckoutSessionTTL)
	return &Services{
		Checkout: NewCheckoutService(carts, client, sessions, a.EventBus, a.Logger),
	}
}
