package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	appsvcs "github.com/ghuser/mintbay/services/cart/application/services"
)

// DeleteItemHandler handles DELETE /cart/items/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute removes a line from the cart. Removing an absent line succeeds.
//
//	@Summary		Remove cart item
//	@Tags			cart
//	@Produce		json
//	@Param			id	path		string	true	"Listing ID"
//	@Success		200	{object}	CartResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/cart/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	cart, err := h.svc.Cart.RemoveItem(r.Context(), userID, listingID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ToCartResponse(cart))
}

// ClearCartHandler handles DELETE /cart requests.
type ClearCartHandler struct {
	svc *appsvcs.Services
}

// NewClearCartHandler returns a ClearCartHandler backed by the given services.
func NewClearCartHandler(svc *appsvcs.Services) *ClearCartHandler {
	return &ClearCartHandler{svc: svc}
}

// Execute empties the cart.
//
//	@Summary		Clear cart
//	@Tags			cart
//	@Produce		json
//	@Success		204	"cart emptied"
//	@Failure		401	{object}	ErrorResponse
//	@Router			/cart [delete]
func (h *ClearCartHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	if err := h.svc.Cart.Clear(r.Context(), userID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
