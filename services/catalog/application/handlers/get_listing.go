package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	appsvcs "github.com/ghuser/mintbay/services/catalog/application/services"
)

// GetListingHandler handles GET /listings/{id} requests.
type GetListingHandler struct {
	svc *appsvcs.Services
}

// NewGetListingHandler returns a GetListingHandler backed by the given services.
func NewGetListingHandler(svc *appsvcs.Services) *GetListingHandler {
	return &GetListingHandler{svc: svc}
}

// Execute fetches a single listing by ID.
//
//	@Summary		Get listing
//	@Description	Fetches one listing, listed or not
//	@Tags			catalog
//	@Produce		json
//	@Param			id	path		string	true	"Listing ID"
//	@Success		200	{object}	ListingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/listings/{id} [get]
func (h *GetListingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	listing, err := h.svc.Catalog.GetByID(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ToListingResponse(listing))
}
