package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/mintbay/pkg/cache"
	catalogdomain "github.com/ghuser/mintbay/services/catalog/domain"
	"github.com/ghuser/mintbay/services/catalog/domain/models"
	"github.com/ghuser/mintbay/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/mintbay/services/catalog/domain/services"
)

// fakeListingRepo is an in-memory ListingRepository for service tests.
type fakeListingRepo struct {
	listings map[uuid.UUID]*models.Listing
	order    []uuid.UUID
	saveErr  error
	findErr  error
	findAlls int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[uuid.UUID]*models.Listing)}
}

func (r *fakeListingRepo) Save(_ context.Context, l *models.Listing) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.listings[l.ID] = l
	r.order = append(r.order, l.ID)
	return nil
}

func (r *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, catalogdomain.ErrListingNotFound
	}
	return l, nil
}

func (r *fakeListingRepo) FindAll(_ context.Context, _ repositories.QueryOpts) ([]*models.Listing, error) {
	r.findAlls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]*models.Listing, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.listings[id])
	}
	return out, nil
}

func (r *fakeListingRepo) Update(_ context.Context, l *models.Listing) error {
	if _, ok := r.listings[l.ID]; !ok {
		return catalogdomain.ErrListingNotFound
	}
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) DecrementEditions(_ context.Context, id uuid.UUID, qty int) (int, error) {
	l, ok := r.listings[id]
	if !ok || l.EditionsAvailable < qty {
		return 0, catalogdomain.ErrListingNotFound
	}
	l.EditionsAvailable -= qty
	return l.EditionsAvailable, nil
}

// fakeIndexer records listings pushed into the search index.
type fakeIndexer struct {
	indexed []uuid.UUID
	removed []uuid.UUID
	err     error
}

func (f *fakeIndexer) IndexListing(l *models.Listing) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, l.ID)
	return nil
}

func (f *fakeIndexer) RemoveListing(id uuid.UUID) error {
	f.removed = append(f.removed, id)
	return nil
}

// fakeReadModelCache records whether each write arrived on a live context.
// The context state is captured at call time, before the service releases
// the detached context it built for the write.
type fakeReadModelCache struct {
	setErr    chan error
	deletes   int
	deleteErr error
}

func newFakeReadModelCache() *fakeReadModelCache {
	return &fakeReadModelCache{setErr: make(chan error, 1)}
}

func (f *fakeReadModelCache) Get(_ context.Context, _ uuid.UUID) (*pkgcache.CachedListing, error) {
	return nil, redis.Nil
}

func (f *fakeReadModelCache) Set(ctx context.Context, _ *pkgcache.CachedListing) error {
	f.setErr <- ctx.Err()
	return nil
}

func (f *fakeReadModelCache) Delete(ctx context.Context, _ uuid.UUID) error {
	f.deletes++
	f.deleteErr = ctx.Err()
	return nil
}

func validInput() CreateListingInput {
	return CreateListingInput{
		Title:      "Morning Mist",
		PriceCents: 2500,
		Category:   "photography",
		Tags:       []string{"fog"},
		Editions:   10,
		Creator:    models.Creator{ID: uuid.New(), Name: "ada"},
	}
}

func TestCatalogService_Create(t *testing.T) {
	t.Run("persists and indexes", func(t *testing.T) {
		repo := newFakeListingRepo()
		idx := &fakeIndexer{}
		svc := NewCatalogService(repo, nil, idx)

		l, err := svc.Create(context.Background(), validInput())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, ok := repo.listings[l.ID]; !ok {
			t.Fatal("listing was not persisted")
		}
		if len(idx.indexed) != 1 || idx.indexed[0] != l.ID {
			t.Fatal("listing was not indexed")
		}
	})

	t.Run("invalid title maps to ErrInvalidListing", func(t *testing.T) {
		svc := NewCatalogService(newFakeListingRepo(), nil, nil)

		in := validInput()
		in.Title = ""
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, catalogdomain.ErrInvalidListing) {
			t.Fatalf("expected ErrInvalidListing, got %v", err)
		}
	})

	t.Run("index failure does not fail the write", func(t *testing.T) {
		repo := newFakeListingRepo()
		idx := &fakeIndexer{err: errors.New("index offline")}
		svc := NewCatalogService(repo, nil, idx)

		if _, err := svc.Create(context.Background(), validInput()); err != nil {
			t.Fatalf("create must tolerate index failure, got %v", err)
		}
	})
}

func TestCatalogService_GetByID(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewCatalogService(repo, nil, nil)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("snapshot hit avoids the repository", func(t *testing.T) {
		svc.Snapshot().Replace([]*models.Listing{created})
		delete(repo.listings, created.ID)

		got, err := svc.GetByID(context.Background(), created.ID)
		if err != nil || got != created {
			t.Fatalf("expected snapshot hit, got %v / %v", got, err)
		}
	})

	t.Run("absence surfaces ErrListingNotFound", func(t *testing.T) {
		if _, err := svc.GetByID(context.Background(), uuid.New()); !errors.Is(err, catalogdomain.ErrListingNotFound) {
			t.Fatalf("expected ErrListingNotFound, got %v", err)
		}
	})
}

func TestCatalogService_Marketplace(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewCatalogService(repo, nil, nil)

	listed, _ := svc.Create(context.Background(), validInput())
	hidden, _ := svc.Create(context.Background(), validInput())
	if _, err := svc.SetListed(context.Background(), hidden.ID, false); err != nil {
		t.Fatalf("set listed: %v", err)
	}

	t.Run("refreshes when empty and hides unlisted", func(t *testing.T) {
		out, err := svc.Marketplace(context.Background(), domainsvcs.Criteria{})
		if err != nil {
			t.Fatalf("marketplace: %v", err)
		}
		if len(out) != 1 || out[0].ID != listed.ID {
			t.Fatalf("expected only the listed listing, got %d", len(out))
		}
		if repo.findAlls != 1 {
			t.Fatalf("expected exactly one refresh, got %d", repo.findAlls)
		}
	})

	t.Run("fresh snapshot is not refetched", func(t *testing.T) {
		before := repo.findAlls
		if _, err := svc.Marketplace(context.Background(), domainsvcs.Criteria{}); err != nil {
			t.Fatalf("marketplace: %v", err)
		}
		if repo.findAlls != before {
			t.Fatal("fresh snapshot must serve without a repository round trip")
		}
	})

	t.Run("no match yields empty slice, not an error", func(t *testing.T) {
		out, err := svc.Marketplace(context.Background(), domainsvcs.Criteria{Category: "sculpture"})
		if err != nil {
			t.Fatalf("marketplace: %v", err)
		}
		if len(out) != 0 {
			t.Fatalf("expected no results, got %d", len(out))
		}
	})

	t.Run("repository failure propagates on refresh", func(t *testing.T) {
		failing := newFakeListingRepo()
		failing.findErr = errors.New("pg down")
		s := NewCatalogService(failing, nil, nil)
		if _, err := s.Marketplace(context.Background(), domainsvcs.Criteria{}); err == nil {
			t.Fatal("expected refresh failure to propagate")
		}
	})
}

func TestCatalogService_SetListed(t *testing.T) {
	repo := newFakeListingRepo()
	idx := &fakeIndexer{}
	svc := NewCatalogService(repo, nil, idx)

	l, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.SetListed(context.Background(), l.ID, false)
	if err != nil {
		t.Fatalf("set listed: %v", err)
	}
	if got.Listed {
		t.Fatal("listing must be unlisted")
	}
	if len(idx.removed) != 1 || idx.removed[0] != l.ID {
		t.Fatal("unlisting must remove the listing from the index")
	}

	if _, err := svc.SetListed(context.Background(), l.ID, true); err != nil {
		t.Fatalf("relist: %v", err)
	}
	// Create indexed once, relisting indexes again.
	if len(idx.indexed) != 2 {
		t.Fatalf("expected 2 index calls, got %d", len(idx.indexed))
	}
}

// Cache writes must survive the end of the request that triggered them while
// keeping the request's values (trace context) attached.
func TestCatalogService_cacheWritesOutliveRequest(t *testing.T) {
	repo := newFakeListingRepo()
	rm := newFakeReadModelCache()
	svc := NewCatalogService(repo, rm, nil)

	l, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("detail read warms the cache after cancellation", func(t *testing.T) {
		if _, err := svc.GetByID(canceled, l.ID); err != nil {
			t.Fatalf("get by id: %v", err)
		}
		select {
		case err := <-rm.setErr:
			if err != nil {
				t.Fatalf("cache warm ran on a canceled context: %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("cache warm never ran")
		}
	})

	t.Run("visibility flip invalidates after cancellation", func(t *testing.T) {
		if _, err := svc.SetListed(canceled, l.ID, false); err != nil {
			t.Fatalf("set listed: %v", err)
		}
		if rm.deletes != 1 {
			t.Fatal("cache invalidation never ran")
		}
		if rm.deleteErr != nil {
			t.Fatalf("cache invalidation ran on a canceled context: %v", rm.deleteErr)
		}
	})
}
