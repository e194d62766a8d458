package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/httpx"
	"github.com/ghuser/mintbay/services/catalog/domain/models"
	appsvcs "github.com/ghuser/mintbay/services/search/application/services"
)

// SearchHit is one search result in API shape.
type SearchHit struct {
	ID         uuid.UUID `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Title      string    `json:"title" example:"Abstract Dream #7"`
	PriceCents int64     `json:"price_cents" example:"250000"`
	ImageURL   string    `json:"image_url,omitempty"`
	Category   string    `json:"category" example:"art"`
	Tags       []string  `json:"tags,omitempty"`
	Listed     bool      `json:"listed" example:"true"`
} // @name SearchHit

// SearchResponse carries results plus the soft degradation signal. Degraded
// is true when a fallback tier answered because the remote search service
// was unavailable; the caller may surface a notice but still has results.
type SearchResponse struct {
	Results  []SearchHit `json:"results"`
	Count    int         `json:"count" example:"12"`
	Tier     string      `json:"tier" example:"remote"`
	Degraded bool        `json:"degraded" example:"false"`
} // @name SearchResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid count"`
} // @name SearchErrorResponse

func toHit(l *models.Listing) SearchHit {
	return SearchHit{
		ID:         l.ID,
		Title:      l.Title.String(),
		PriceCents: l.PriceCents,
		ImageURL:   l.ImageURL,
		Category:   l.Category,
		Tags:       l.Tags,
		Listed:     l.Listed,
	}
}

func toResponse(out appsvcs.Output) SearchResponse {
	resp := SearchResponse{
		Results:  make([]SearchHit, 0, len(out.Listings)),
		Count:    len(out.Listings),
		Tier:     string(out.Tier),
		Degraded: out.Degraded,
	}
	for _, l := range out.Listings {
		resp.Results = append(resp.Results, toHit(l))
	}
	return resp
}

// GetSearchHandler handles GET /search requests.
type GetSearchHandler struct {
	svc *appsvcs.Services
}

// NewGetSearchHandler returns a GetSearchHandler backed by the given services.
func NewGetSearchHandler(svc *appsvcs.Services) *GetSearchHandler {
	return &GetSearchHandler{svc: svc}
}

// Execute runs a free-text search. An empty query returns an empty result
// set, and upstream failures degrade to local tiers; neither is an error.
//
//	@Summary		Search listings
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	false	"Free-text query"
//	@Param			limit	query		int		false	"Maximum results (default 20)"
//	@Success		200		{object}	SearchResponse
//	@Router			/search [get]
func (h *GetSearchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	out := h.svc.Search.Search(r.Context(), query, limit)
	httpx.JSON(w, http.StatusOK, toResponse(out))
}
