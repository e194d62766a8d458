package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	pkgvalidator "github.com/ghuser/mintbay/pkg/validator"
	appsvcs "github.com/ghuser/mintbay/services/cart/application/services"
)

// UpdateQuantityRequest is the request body for PUT /cart/items/{id}.
// A quantity of zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=10000" example:"3"`
} // @name UpdateQuantityRequest

// PutItemHandler handles PUT /cart/items/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services) *PutItemHandler {
	return &PutItemHandler{svc: svc}
}

// Execute sets a line's quantity; zero removes the line.
//
//	@Summary		Update cart item quantity
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Listing ID"
//	@Param			request	body		UpdateQuantityRequest	true	"New quantity"
//	@Success		200		{object}	CartResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/cart/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	req, ok := pkgvalidator.ValidateRequest[UpdateQuantityRequest](w, r)
	if !ok {
		return
	}

	cart, err := h.svc.Cart.SetQuantity(r.Context(), userID, listingID, req.Quantity)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ToCartResponse(cart))
}
