// Package services contains stateless domain services for the catalog
// bounded context. Domain services enforce business rules that operate
// purely on domain types and have zero external dependencies beyond stdlib
// and the domain layer.
package services

import (
	"sort"
	"strings"

	"github.com/ghuser/mintbay/services/catalog/domain/models"
)

// SortOrder selects the ordering applied after filtering.
type SortOrder string

// Recognized sort orders. Anything else falls back to SortRecent.
const (
	SortRecent    SortOrder = "recent"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortPopular   SortOrder = "popular"
)

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "all"

// Criteria is the filter configuration for catalog queries.
// Zero values mean "no filtering" for each field.
type Criteria struct {
	// Category is matched exactly, case-insensitively. Empty or "all"
	// disables the category filter.
	Category string
	// MinPriceCents / MaxPriceCents are inclusive bounds; nil disables.
	MinPriceCents *int64
	MaxPriceCents *int64
	// Tags match with OR semantics: a listing qualifies when it carries at
	// least one of these tags. Empty disables the tag filter.
	Tags []string
	// SortBy orders the filtered result. Ties keep input order.
	SortBy SortOrder
}

// Filter returns the listings matching c, sorted per c.SortBy.
//
// Filter is pure: it never mutates its input, and calling it twice with
// identical criteria over the same slice yields identical output (same
// elements, same order). Equal sort keys retain input order.
//
// Availability does not gate visibility here — a listing with zero editions
// available still matches. Only marketplace queries exclude unlisted
// listings, and they do so before calling Filter.
func Filter(listings []*models.Listing, c Criteria) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if matches(l, c) {
			out = append(out, l)
		}
	}
	sortListings(out, c.SortBy)
	return out
}

// ListedOnly returns the listings currently offered for sale, in input order.
func ListedOnly(listings []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Listed {
			out = append(out, l)
		}
	}
	return out
}

func matches(l *models.Listing, c Criteria) bool {
	if cat := strings.TrimSpace(c.Category); cat != "" && !strings.EqualFold(cat, CategoryAll) {
		if !strings.EqualFold(l.Category, cat) {
			return false
		}
	}
	if c.MinPriceCents != nil && l.PriceCents < *c.MinPriceCents {
		return false
	}
	if c.MaxPriceCents != nil && l.PriceCents > *c.MaxPriceCents {
		return false
	}
	if len(c.Tags) > 0 {
		any := false
		for _, t := range c.Tags {
			if l.HasTag(t) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

func sortListings(ls []*models.Listing, order SortOrder) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].PriceCents < ls[j].PriceCents })
	case SortPriceDesc:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].PriceCents > ls[j].PriceCents })
	case SortPopular:
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Likes > ls[j].Likes })
	default: // SortRecent
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].CreatedAt.After(ls[j].CreatedAt) })
	}
}
