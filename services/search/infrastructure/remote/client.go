// Package remote implements the HTTP client for the external semantic
// search service. The service follows an always-200 soft-error convention:
// failures may arrive as a 200 with an error field in the body, so callers
// must treat a populated error field or a missing results field as failure.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/services/catalog/domain/models"
)

// PlaceholderImageURL substitutes for records that arrive without an image.
const PlaceholderImageURL = "/assets/placeholder.png"

const defaultTitle = "Untitled"

// Client talks to the remote search service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the given base URL. The timeout bounds
// each request end to end so a slow upstream cannot stall the fallback
// cascade indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// rawItem is a search record as the remote service ships it. Every field
// beyond the id is optional; mapping fills in defaults.
type rawItem struct {
	ID                string     `json:"id"`
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	PriceCents        *int64     `json:"price_cents"`
	ImageURL          *string    `json:"image_url"`
	Category          *string    `json:"category"`
	Tags              []string   `json:"tags"`
	EditionsTotal     *int       `json:"editions_total"`
	EditionsAvailable *int       `json:"editions_available"`
	Likes             *int64     `json:"likes"`
	Views             *int64     `json:"views"`
	Listed            *bool      `json:"listed"`
	CreatedAt         *time.Time `json:"created_at"`
	CreatorID         *uuid.UUID `json:"creator_id"`
	CreatorName       *string    `json:"creator_name"`
}

// searchResponse uses a pointer slice so a structurally missing results
// field is distinguishable from an empty one. Missing means the response
// is malformed and the caller must fall back.
type searchResponse struct {
	Results *[]rawItem `json:"results"`
	Count   int        `json:"count"`
	Error   string     `json:"error"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Search sends the query to the remote endpoint and returns the ranked
// listings. Any transport, status, decode, or soft error is returned to
// the caller so the facade can move to the next tier.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*models.Listing, error) {
	body, err := json.Marshal(searchRequest{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}
	return c.post(ctx, c.baseURL+"/search", body)
}

type similarRequest struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Similar returns listings ordered by decreasing similarity to the
// reference listing.
func (c *Client) Similar(ctx context.Context, id uuid.UUID, count int) ([]*models.Listing, error) {
	body, err := json.Marshal(similarRequest{ID: id.String(), Count: count})
	if err != nil {
		return nil, fmt.Errorf("encode similar request: %w", err)
	}
	return c.post(ctx, c.baseURL+"/similar", body)
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]*models.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call search service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search service returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("search service error: %s", decoded.Error)
	}
	if decoded.Results == nil {
		return nil, fmt.Errorf("search response missing results")
	}

	listings := make([]*models.Listing, 0, len(*decoded.Results))
	for _, raw := range *decoded.Results {
		l, err := mapItem(raw)
		if err != nil {
			// A single bad record does not spoil the batch.
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// mapItem converts a raw record into a Listing, defaulting absent fields:
// title to "Untitled", image to a placeholder, numerics to zero, listed to
// true. Records without a parseable id are rejected.
func mapItem(raw rawItem) (*models.Listing, error) {
	id, err := uuid.Parse(raw.ID)
	if err != nil {
		return nil, fmt.Errorf("parse item id %q: %w", raw.ID, err)
	}

	l := &models.Listing{
		ID:       id,
		Title:    models.Title(defaultTitle),
		ImageURL: PlaceholderImageURL,
		Listed:   true,
		Tags:     raw.Tags,
	}
	if raw.Title != nil && *raw.Title != "" {
		l.Title = models.Title(*raw.Title)
	}
	if raw.Description != nil {
		l.Description = *raw.Description
	}
	if raw.PriceCents != nil {
		l.PriceCents = *raw.PriceCents
	}
	if raw.ImageURL != nil && *raw.ImageURL != "" {
		l.ImageURL = *raw.ImageURL
	}
	if raw.Category != nil {
		l.Category = *raw.Category
	}
	if raw.EditionsTotal != nil {
		l.EditionsTotal = *raw.EditionsTotal
	}
	if raw.EditionsAvailable != nil {
		l.EditionsAvailable = *raw.EditionsAvailable
	}
	if raw.Likes != nil {
		l.Likes = *raw.Likes
	}
	if raw.Views != nil {
		l.Views = *raw.Views
	}
	if raw.Listed != nil {
		l.Listed = *raw.Listed
	}
	if raw.CreatedAt != nil {
		l.CreatedAt = *raw.CreatedAt
	}
	if raw.CreatorID != nil {
		l.Creator.ID = *raw.CreatorID
	}
	if raw.CreatorName != nil {
		l.Creator.Name = *raw.CreatorName
	}
	return l, nil
}
