package handlers

import (
	"net/http"

	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	pkgvalidator "github.com/ghuser/mintbay/pkg/validator"
	appsvcs "github.com/ghuser/mintbay/services/cart/application/services"
	"github.com/google/uuid"
)

// AddItemRequest is the request body for POST /cart/items.
type AddItemRequest struct {
	ListingID string `json:"listing_id" validate:"required,uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
} // @name AddItemRequest

// PostItemHandler handles POST /cart/items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute adds one edition of a listing to the cart.
//
//	@Summary		Add cart item
//	@Description	Adds one edition; repeat calls increment the existing line
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddItemRequest	true	"Item to add"
//	@Success		200		{object}	CartResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/cart/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[AddItemRequest](w, r)
	if !ok {
		return
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	cart, err := h.svc.Cart.AddItem(r.Context(), userID, listingID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ToCartResponse(cart))
}
