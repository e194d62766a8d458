package services

import (
	"context"
	"fmt"

	"github.com/ghuser/mintbay/pkg/app"
	"github.com/ghuser/mintbay/pkg/config"
	domainsvcs "github.com/ghuser/mintbay/services/catalog/domain/services"
	"github.com/ghuser/mintbay/services/search/infrastructure/bleveindex"
	"github.com/ghuser/mintbay/services/search/infrastructure/remote"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Search  *SearchService
	Index   *bleveindex.Index
	catalog CatalogReader
}

// New wires the search cascade. index may be nil (no full-text tier); an
// empty SearchServiceURL disables the remote tier so everything is served
// locally.
func New(a *app.Application, cfg *config.Config, index *bleveindex.Index, catalog CatalogReader) *Services {
	var remoteTier RemoteSearcher
	if cfg.SearchServiceURL != "" {
		remoteTier = remote.NewClient(cfg.SearchServiceURL, cfg.SearchTimeout)
	} else {
		a.Logger.Warn("no search service configured, search runs on local tiers only")
	}

	var indexTier IndexSearcher
	if index != nil {
		indexTier = index
	}

	return &Services{
		Search:  NewSearchService(remoteTier, indexTier, catalog, a.Logger),
		Index:   index,
		catalog: catalog,
	}
}

// RebuildIndex reloads the catalog from Postgres and reindexes every listed
// listing. Called at API startup so the full-text tier reflects the current
// catalog before traffic arrives.
func (s *Services) RebuildIndex(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	listed := domainsvcs.ListedOnly(s.catalog.Snapshot().All())
	if err := s.Index.Rebuild(listed); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	return nil
}
