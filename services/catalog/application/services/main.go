package services

import (
	"github.com/ghuser/mintbay/pkg/app"
	"github.com/ghuser/mintbay/pkg/cache"
	"github.com/ghuser/mintbay/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Catalog *CatalogService
}

// New wires the catalog application services with infrastructure from the
// Application container. indexer may be nil (worker process, tests).
func New(a *app.Application, indexer Indexer) *Services {
	repo := postgres.NewListingRepository(a.Db, a.EventBus)
	listingCache := cache.NewListingCache(a.Redis)
	return &Services{
		Catalog: NewCatalogService(repo, listingCache, indexer),
	}
}
