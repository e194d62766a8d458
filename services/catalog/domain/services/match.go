package services

import (
	"strings"

	"github.com/ghuser/mintbay/services/catalog/domain/models"
)

// MatchesText reports whether the trimmed, case-insensitive query matches a
// listing: as a substring of its title, description, or category, or
// token-wise against one of its tags (the query contains the tag or the tag
// contains the query). An empty query matches nothing.
func MatchesText(l *models.Listing, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(l.Title.String()), q) {
		return true
	}
	if strings.Contains(strings.ToLower(l.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(l.Category), q) {
		return true
	}
	for _, tag := range l.Tags {
		lt := strings.ToLower(tag)
		if strings.Contains(lt, q) || strings.Contains(q, lt) {
			return true
		}
	}
	return false
}

// FilterText returns the listings matching query per MatchesText, keeping
// input order. It is the final search tier and cannot fail.
func FilterText(listings []*models.Listing, query string) []*models.Listing {
	out := make([]*models.Listing, 0)
	for _, l := range listings {
		if MatchesText(l, query) {
			out = append(out, l)
		}
	}
	return out
}
