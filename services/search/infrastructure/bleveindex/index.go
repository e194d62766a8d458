// Package bleveindex maintains a local full-text index over catalog
// listings using Bleve. It is the middle tier of the search cascade:
// consulted when the remote search service is unavailable, ahead of the
// plain in-memory substring filter.
package bleveindex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/logger"
	"github.com/ghuser/mintbay/services/catalog/domain/models"
)

// mappingVersion is bumped whenever the index mapping changes; a mismatch
// on startup drops the on-disk index and rebuilds it.
const mappingVersion = "1"

// Index wraps a Bleve index with listing-specific operations.
//
// All public methods are safe for concurrent use. The mutex guards the
// index handle during Rebuild, which swaps it wholesale.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	logger logger.Logger
}

// New opens the index at dataPath, creating it when absent. A corrupted
// index or a stale mapping version is removed and recreated empty; the
// caller is expected to reindex from the catalog afterwards.
func New(dataPath string, log logger.Logger) (*Index, error) {
	indexPath := filepath.Join(dataPath, "listings.bleve")
	versionPath := filepath.Join(dataPath, "listings.version")

	recreate := false
	if _, err := os.Stat(indexPath); err == nil {
		version, err := os.ReadFile(versionPath)
		if err != nil || string(version) != mappingVersion {
			log.Info("search index mapping changed, recreating", "path", indexPath)
			recreate = true
		}
	}

	// Creation is decided from the open error, never from the returned
	// interface: bleve.Open hands back a non-nil interface holding a nil
	// *indexImpl alongside ErrorIndexPathDoesNotExist.
	var idx bleve.Index
	if !recreate {
		opened, err := bleve.Open(indexPath)
		switch {
		case err == nil:
			idx = opened
		case err == bleve.ErrorIndexPathDoesNotExist:
			// First run; create below.
		default:
			log.Warn("failed to open search index, recreating", "path", indexPath, "error", err)
			recreate = true
		}
	}

	if idx == nil {
		if recreate {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, fmt.Errorf("remove old index: %w", err)
			}
		}
		created, err := bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		idx = created
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			log.Warn("failed to write index version file", "error", err)
		}
	}

	return &Index{index: idx, path: indexPath, logger: log}, nil
}

// toDocument flattens a listing to the indexed shape. Field names are
// lowercase to match the index mapping.
func toDocument(l *models.Listing) map[string]interface{} {
	return map[string]interface{}{
		"title":       l.Title.String(),
		"description": l.Description,
		"category":    l.Category,
		"tags":        l.Tags,
		"price_cents": l.PriceCents,
		"created_at":  l.CreatedAt.UnixMilli(),
	}
}

// IndexListing adds or updates a listing in the index.
func (x *Index) IndexListing(l *models.Listing) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.Index(l.ID.String(), toDocument(l))
}

// RemoveListing deletes a listing from the index. Removing an id that was
// never indexed is a no-op.
func (x *Index) RemoveListing(id uuid.UUID) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.Delete(id.String())
}

// Rebuild replaces the index contents with the given listings: the on-disk
// index is recreated empty and repopulated in batches, so documents absent
// from the new catalog (unlisted or deleted while the process was down) are
// gone afterwards. If recreation fails the handle keeps pointing at the
// closed index and queries error until the next successful rebuild; the
// search cascade treats that as a skipped tier.
func (x *Index) Rebuild(listings []*models.Listing) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(x.path); err != nil {
		return fmt.Errorf("remove old index: %w", err)
	}
	fresh, err := bleve.New(x.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	x.index = fresh

	const batchSize = 500
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}

		batch := x.index.NewBatch()
		for _, l := range listings[i:end] {
			if err := batch.Index(l.ID.String(), toDocument(l)); err != nil {
				return fmt.Errorf("batch index %s: %w", l.ID, err)
			}
		}
		if err := x.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// Query runs a full-text query and returns matching listing ids ordered by
// relevance. Zero hits is (empty, nil), not an error.
func (x *Index) Query(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(query), limit, 0, false)
	result, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DocumentCount returns the number of indexed listings.
func (x *Index) DocumentCount() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

// Close releases the index resources.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Close()
}
