package services

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/logger"
	catalogsvcs "github.com/ghuser/mintbay/services/catalog/application/services"
	"github.com/ghuser/mintbay/services/catalog/domain/models"
	domainsvcs "github.com/ghuser/mintbay/services/catalog/domain/services"
)

// DefaultLimit caps search results when the caller does not specify one.
const DefaultLimit = 20

// Tier identifies which cascade tier produced a search result.
type Tier string

// Cascade tiers in consultation order.
const (
	TierRemote Tier = "remote"
	TierIndex  Tier = "index"
	TierLocal  Tier = "local"
)

// RemoteSearcher is the external semantic search service.
type RemoteSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]*models.Listing, error)
	Similar(ctx context.Context, id uuid.UUID, count int) ([]*models.Listing, error)
}

// IndexSearcher is the local full-text tier. A nil IndexSearcher skips the
// tier entirely (worker process, tests).
type IndexSearcher interface {
	Query(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
}

// CatalogReader provides the in-memory catalog for the final tier and for
// resolving index hits to full listings.
type CatalogReader interface {
	Refresh(ctx context.Context) error
	Snapshot() *catalogsvcs.Snapshot
}

// Output is the terminal state of one search invocation: always a result
// sequence, never an error. Degraded is the soft warning that a fallback
// tier answered instead of the remote service.
type Output struct {
	Listings []*models.Listing
	Tier     Tier
	Degraded bool
	// Superseded marks a completion that lost the race to a newer query.
	// Its listings must not update visible state.
	Superseded bool
}

// SearchService cascades a text query through tiers until one answers:
// remote semantic search, then the local full-text index, then a substring
// filter over the in-memory catalog. Tier failures degrade, they never
// propagate.
type SearchService struct {
	remote  RemoteSearcher
	index   IndexSearcher
	catalog CatalogReader
	log     logger.Logger

	// generation orders queries so a stale completion can be discarded
	// when a newer query has been issued meanwhile.
	generation atomic.Uint64
}

// NewSearchService wires the cascade. index may be nil.
func NewSearchService(remote RemoteSearcher, index IndexSearcher, catalog CatalogReader, log logger.Logger) *SearchService {
	return &SearchService{remote: remote, index: index, catalog: catalog, log: log}
}

// Search runs the tiered cascade for query. An empty or whitespace query
// yields an empty Output immediately with no remote call.
func (s *SearchService) Search(ctx context.Context, query string, limit int) Output {
	query = strings.TrimSpace(query)
	if query == "" {
		return Output{Listings: []*models.Listing{}, Tier: TierLocal}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	gen := s.generation.Add(1)

	if s.remote != nil {
		listings, err := s.remote.Search(ctx, query, limit)
		if superseded := s.generation.Load() != gen; superseded {
			return Output{Listings: []*models.Listing{}, Superseded: true}
		}
		if err == nil {
			return Output{Listings: listings, Tier: TierRemote}
		}
		s.log.WarnContext(ctx, "remote search failed, falling back", "query", query, "error", err)
	}

	if s.index != nil {
		if listings, ok := s.searchIndex(ctx, query, limit); ok {
			if s.generation.Load() != gen {
				return Output{Listings: []*models.Listing{}, Superseded: true}
			}
			return Output{Listings: listings, Tier: TierIndex, Degraded: true}
		}
	}

	listings := s.searchLocal(ctx, query)
	if len(listings) > limit {
		listings = listings[:limit]
	}
	if s.generation.Load() != gen {
		return Output{Listings: []*models.Listing{}, Superseded: true}
	}
	return Output{Listings: listings, Tier: TierLocal, Degraded: true}
}

// searchIndex consults the full-text index and resolves hits against the
// catalog snapshot. Zero hits or any error means "try the next tier".
func (s *SearchService) searchIndex(ctx context.Context, query string, limit int) ([]*models.Listing, bool) {
	ids, err := s.index.Query(ctx, query, limit)
	if err != nil {
		s.log.WarnContext(ctx, "index search failed, falling back", "query", query, "error", err)
		return nil, false
	}
	if len(ids) == 0 {
		return nil, false
	}

	snap := s.ensureCatalog(ctx)
	listings := make([]*models.Listing, 0, len(ids))
	for _, id := range ids {
		if l, ok := snap.FindByID(id); ok && l.Listed {
			listings = append(listings, l)
		}
	}
	if len(listings) == 0 {
		return nil, false
	}
	return listings, true
}

// searchLocal is the terminal tier: a case-insensitive substring filter
// over the listed catalog in catalog order. It cannot fail; an unreachable
// database simply means fewer (possibly zero) results.
func (s *SearchService) searchLocal(ctx context.Context, query string) []*models.Listing {
	snap := s.ensureCatalog(ctx)
	listed := domainsvcs.ListedOnly(snap.All())
	return domainsvcs.FilterText(listed, query)
}

// ensureCatalog fetches the marketplace catalog when nothing is held in
// memory yet. A failed refresh leaves the (possibly empty) snapshot as is.
func (s *SearchService) ensureCatalog(ctx context.Context) *catalogsvcs.Snapshot {
	snap := s.catalog.Snapshot()
	if snap.Empty() {
		if err := s.catalog.Refresh(ctx); err != nil {
			s.log.WarnContext(ctx, "catalog refresh failed, searching held snapshot", "error", err)
		}
	}
	return snap
}

// Related returns up to count listings related to the reference listing.
// Similarity lookup first; on error or empty, tag overlap, then shared
// category, padded with arbitrary other listed listings up to count. The
// reference itself and unlisted listings are never included. An unknown
// reference yields an empty slice, not an error.
func (s *SearchService) Related(ctx context.Context, id uuid.UUID, count int) []*models.Listing {
	if count <= 0 {
		return []*models.Listing{}
	}

	var related []*models.Listing
	if s.remote != nil {
		listings, err := s.remote.Similar(ctx, id, count)
		if err != nil {
			s.log.WarnContext(ctx, "similarity lookup failed, falling back", "listing_id", id, "error", err)
		} else {
			for _, l := range listings {
				if l.ID != id && l.Listed {
					related = append(related, l)
				}
			}
		}
	}

	snap := s.ensureCatalog(ctx)
	if len(related) == 0 {
		ref, ok := snap.FindByID(id)
		if !ok {
			return []*models.Listing{}
		}
		related = overlapFallback(domainsvcs.ListedOnly(snap.All()), ref)
	}

	related = pad(related, domainsvcs.ListedOnly(snap.All()), id, count)
	if len(related) > count {
		related = related[:count]
	}
	return related
}

// overlapFallback picks listings sharing a tag with ref, or failing that,
// listings in ref's category.
func overlapFallback(listed []*models.Listing, ref *models.Listing) []*models.Listing {
	byTag := make([]*models.Listing, 0)
	byCategory := make([]*models.Listing, 0)
	for _, l := range listed {
		if l.ID == ref.ID {
			continue
		}
		if l.SharesTag(ref) {
			byTag = append(byTag, l)
		} else if strings.EqualFold(l.Category, ref.Category) {
			byCategory = append(byCategory, l)
		}
	}
	if len(byTag) > 0 {
		return byTag
	}
	return byCategory
}

// pad tops chosen up with other listed listings until count is reached,
// skipping the reference and anything already chosen.
func pad(chosen []*models.Listing, listed []*models.Listing, refID uuid.UUID, count int) []*models.Listing {
	if len(chosen) >= count {
		return chosen
	}
	seen := make(map[uuid.UUID]struct{}, len(chosen)+1)
	seen[refID] = struct{}{}
	for _, l := range chosen {
		seen[l.ID] = struct{}{}
	}
	for _, l := range listed {
		if len(chosen) >= count {
			break
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		chosen = append(chosen, l)
	}
	return chosen
}
