package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/mintbay/pkg/cache"
	catalogdomain "github.com/ghuser/mintbay/services/catalog/domain"
	"github.com/ghuser/mintbay/services/catalog/domain/models"
	"github.com/ghuser/mintbay/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/mintbay/services/catalog/domain/services"
)

// snapshotMaxAge bounds how stale the in-memory catalog may get before a
// marketplace query refreshes it from Postgres.
const snapshotMaxAge = 30 * time.Second

// cacheWriteTimeout bounds read-model writes that outlive the request.
const cacheWriteTimeout = 2 * time.Second

// ReadModelCache is the Redis-backed listing read model consulted on detail
// and availability reads. A nil ReadModelCache disables caching.
type ReadModelCache interface {
	Get(ctx context.Context, listingID uuid.UUID) (*pkgcache.CachedListing, error)
	Set(ctx context.Context, l *pkgcache.CachedListing) error
	Delete(ctx context.Context, listingID uuid.UUID) error
}

// Indexer receives listing changes so a search index can stay current.
// The search context implements it; a nil Indexer disables indexing.
type Indexer interface {
	IndexListing(l *models.Listing) error
	RemoveListing(id uuid.UUID) error
}

// CatalogService orchestrates creation and retrieval of Listings.
// Event publishing is handled by the repository layer (outbox pattern).
// Detail reads are served from Redis cache when available; marketplace
// queries run against the in-memory snapshot.
type CatalogService struct {
	repo     repositories.ListingRepository
	cache    ReadModelCache
	snapshot *Snapshot
	indexer  Indexer
}

// NewCatalogService returns a CatalogService wired with the given
// repository, cache, and optional search indexer.
func NewCatalogService(repo repositories.ListingRepository, cache ReadModelCache, indexer Indexer) *CatalogService {
	return &CatalogService{
		repo:     repo,
		cache:    cache,
		snapshot: NewSnapshot(),
		indexer:  indexer,
	}
}

// Snapshot exposes the in-memory catalog for read-only collaborators
// (the search fallback tiers).
func (s *CatalogService) Snapshot() *Snapshot {
	return s.snapshot
}

// CreateListingInput carries the fields of a new listing.
type CreateListingInput struct {
	Title       string
	Description string
	PriceCents  int64
	ImageURL    string
	Category    string
	Tags        []string
	Editions    int
	Creator     models.Creator
}

// Create validates and persists a Listing. The repository publishes
// ListingCreatedEvent; the search index is updated best-effort.
func (s *CatalogService) Create(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	title, err := models.NewTitle(in.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidListing, err)
	}

	listing, err := models.NewListing(title, in.Description, in.PriceCents, in.ImageURL, in.Category, in.Tags, in.Editions, in.Creator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidListing, err)
	}

	if err := s.repo.Save(ctx, listing); err != nil {
		return nil, fmt.Errorf("save listing: %w", err)
	}

	if s.indexer != nil {
		// Index failures must not fail the write; the index is a fallback
		// tier, not the source of truth.
		_ = s.indexer.IndexListing(listing)
	}

	return listing, nil
}

// GetByID retrieves a Listing. The in-memory snapshot is consulted first;
// on a miss the Postgres row is fetched and the Redis read model is warmed
// asynchronously. Absence surfaces as ErrListingNotFound from the repository.
func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	if l, ok := s.snapshot.FindByID(id); ok {
		return l, nil
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	if s.cache != nil {
		// Detach from request cancellation but keep trace context.
		warmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
		go func() {
			defer cancel()
			_ = s.cache.Set(warmCtx, &pkgcache.CachedListing{
				ID:                listing.ID,
				Title:             listing.Title.String(),
				PriceCents:        listing.PriceCents,
				Category:          listing.Category,
				Listed:            listing.Listed,
				EditionsAvailable: listing.EditionsAvailable,
				CreatedAt:         listing.CreatedAt,
			})
		}()
	}

	return listing, nil
}

// Availability reports the current editions available for a listing,
// preferring the Redis read model over Postgres.
func (s *CatalogService) Availability(ctx context.Context, id uuid.UUID) (int, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return cached.EditionsAvailable, nil
		} else if !errors.Is(err, redis.Nil) {
			// Cache error; fall through to Postgres.
			_ = err
		}
	}
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get listing: %w", err)
	}
	return listing.EditionsAvailable, nil
}

// Marketplace answers a filtered, sorted, listed-only catalog query against
// the in-memory snapshot, refreshing it from Postgres when empty or stale.
// No-match yields an empty slice, never an error.
func (s *CatalogService) Marketplace(ctx context.Context, criteria domainsvcs.Criteria) ([]*models.Listing, error) {
	if err := s.ensureSnapshot(ctx); err != nil {
		return nil, err
	}
	listed := domainsvcs.ListedOnly(s.snapshot.All())
	return domainsvcs.Filter(listed, criteria), nil
}

// Refresh replaces the in-memory snapshot with the full catalog from Postgres.
func (s *CatalogService) Refresh(ctx context.Context) error {
	listings, err := s.repo.FindAll(ctx, repositories.QueryOpts{})
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	s.snapshot.Replace(listings)
	return nil
}

// ensureSnapshot refreshes when the snapshot was never populated or has
// exceeded its staleness bound. A concurrent in-flight refresh is
// tolerated: the second fetch simply replaces the first result.
func (s *CatalogService) ensureSnapshot(ctx context.Context) error {
	if s.snapshot.Empty() || s.snapshot.Age() > snapshotMaxAge {
		return s.Refresh(ctx)
	}
	return nil
}

// SetListed flips marketplace visibility for a listing and invalidates the
// read-model cache.
func (s *CatalogService) SetListed(ctx context.Context, id uuid.UUID, listed bool) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	listing.Listed = listed
	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	if s.cache != nil {
		dropCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
		_ = s.cache.Delete(dropCtx, id)
		cancel()
	}
	if s.indexer != nil {
		if listed {
			_ = s.indexer.IndexListing(listing)
		} else {
			_ = s.indexer.RemoveListing(id)
		}
	}
	return listing, nil
}
