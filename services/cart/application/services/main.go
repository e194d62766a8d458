package services

import (
	"github.com/ghuser/mintbay/pkg/app"
	cartredis "github.com/ghuser/mintbay/services/cart/infrastructure/persistence/redis"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Cart *CartService
}

// New wires the cart application services with infrastructure from the
// Application container. listings is the catalog's ListingProvider.
func New(a *app.Application, listings ListingProvider) *Services {
	repo := cartredis.NewCartRepository(a.Redis)
	return &Services{
		Cart: NewCartService(repo, listings),
	}
}
