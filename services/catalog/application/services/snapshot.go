package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/services/catalog/domain/models"
)

// Snapshot holds the most-recently-fetched catalog in memory and answers
// synchronous queries against it. It owns no persistence; it only caches
// the last fetch result.
//
// All methods are safe for concurrent use. Readers get defensive copies of
// the slice header; the Listing pointers themselves are shared and treated
// as read-only by every consumer.
type Snapshot struct {
	mu        sync.RWMutex
	listings  []*models.Listing
	byID      map[uuid.UUID]*models.Listing
	fetchedAt time.Time
}

// NewSnapshot returns an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{byID: make(map[uuid.UUID]*models.Listing)}
}

// Replace swaps the held catalog wholesale.
func (s *Snapshot) Replace(listings []*models.Listing) {
	byID := make(map[uuid.UUID]*models.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = append([]*models.Listing(nil), listings...)
	s.byID = byID
	s.fetchedAt = time.Now()
}

// All returns the held listings in fetch order.
func (s *Snapshot) All() []*models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Listing(nil), s.listings...)
}

// FindByID looks up a listing. Absence is (nil, false), not an error.
func (s *Snapshot) FindByID(id uuid.UUID) (*models.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	return l, ok
}

// Empty reports whether the snapshot has never been populated.
func (s *Snapshot) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt.IsZero()
}

// Age returns how long ago the snapshot was last replaced.
// Returns a very large duration when the snapshot is empty.
func (s *Snapshot) Age() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fetchedAt.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return time.Since(s.fetchedAt)
}
