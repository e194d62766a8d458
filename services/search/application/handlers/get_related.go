package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/httpx"
	appsvcs "github.com/ghuser/mintbay/services/search/application/services"
)

// defaultRelatedCount is how many related listings are returned when the
// caller does not ask for a specific count.
const defaultRelatedCount = 4

// RelatedResponse carries related listings for a reference listing.
type RelatedResponse struct {
	Results []SearchHit `json:"results"`
	Count   int         `json:"count" example:"4"`
} // @name RelatedResponse

// GetRelatedHandler handles GET /search/related/{id} requests.
type GetRelatedHandler struct {
	svc *appsvcs.Services
}

// NewGetRelatedHandler returns a GetRelatedHandler backed by the given services.
func NewGetRelatedHandler(svc *appsvcs.Services) *GetRelatedHandler {
	return &GetRelatedHandler{svc: svc}
}

// Execute returns listings related to the reference listing. An unknown
// reference yields an empty result set, not an error.
//
//	@Summary		Related listings
//	@Tags			search
//	@Produce		json
//	@Param			id		path		string	true	"Reference listing id"
//	@Param			count	query		int		false	"Desired number of results (default 4)"
//	@Success		200		{object}	RelatedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/search/related/{id} [get]
func (h *GetRelatedHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	count := defaultRelatedCount
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid count")
			return
		}
		count = n
	}

	listings := h.svc.Search.Related(r.Context(), id, count)

	resp := RelatedResponse{Results: make([]SearchHit, 0, len(listings)), Count: len(listings)}
	for _, l := range listings {
		resp.Results = append(resp.Results, toHit(l))
	}
	httpx.JSON(w, http.StatusOK, resp)
}
