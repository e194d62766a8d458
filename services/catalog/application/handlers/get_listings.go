package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	appsvcs "github.com/ghuser/mintbay/services/catalog/application/services"
	domainsvcs "github.com/ghuser/mintbay/services/catalog/domain/services"
)

// ListingsResponse wraps a marketplace query result.
type ListingsResponse struct {
	Listings []ListingResponse `json:"listings"`
	Count    int               `json:"count" example:"12"`
} // @name ListingsResponse

// GetListingsHandler handles GET /listings requests (marketplace queries).
type GetListingsHandler struct {
	svc *appsvcs.Services
}

// NewGetListingsHandler returns a GetListingsHandler backed by the given services.
func NewGetListingsHandler(svc *appsvcs.Services) *GetListingsHandler {
	return &GetListingsHandler{svc: svc}
}

// Execute answers a filtered, sorted marketplace query.
// Unlisted listings are excluded; zero-availability listings are not.
//
//	@Summary		Browse marketplace
//	@Description	Filter and sort listings currently offered for sale
//	@Tags			catalog
//	@Produce		json
//	@Param			category	query		string	false	"Category (case-insensitive; 'all' disables)"
//	@Param			min_price	query		int		false	"Inclusive lower price bound in cents"
//	@Param			max_price	query		int		false	"Inclusive upper price bound in cents"
//	@Param			tags		query		string	false	"Comma-separated tags, OR semantics"
//	@Param			sort		query		string	false	"recent | price_asc | price_desc | popular"
//	@Success		200			{object}	ListingsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/listings [get]
func (h *GetListingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	listings, err := h.svc.Catalog.Marketplace(r.Context(), criteria)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := ListingsResponse{Listings: make([]ListingResponse, 0, len(listings)), Count: len(listings)}
	for _, l := range listings {
		resp.Listings = append(resp.Listings, ToListingResponse(l))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func parseCriteria(r *http.Request) (domainsvcs.Criteria, error) {
	q := r.URL.Query()
	criteria := domainsvcs.Criteria{
		Category: q.Get("category"),
		SortBy:   domainsvcs.SortOrder(q.Get("sort")),
	}

	if v := q.Get("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid min_price %q", v)
		}
		criteria.MinPriceCents = &n
	}
	if v := q.Get("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid max_price %q", v)
		}
		criteria.MaxPriceCents = &n
	}
	if v := q.Get("tags"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				criteria.Tags = append(criteria.Tags, t)
			}
		}
	}
	return criteria, nil
}
