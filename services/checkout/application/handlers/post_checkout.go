package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	pkgvalidator "github.com/ghuser/mintbay/pkg/validator"
	appsvcs "github.com/ghuser/mintbay/services/checkout/application/services"
)

// InitiateCheckoutRequest is the request body for POST /checkout.
type InitiateCheckoutRequest struct {
	SuccessURL string `json:"success_url" validate:"required,url" example:"https://shop.example.com/checkout/success"`
	CancelURL  string `json:"cancel_url" validate:"required,url" example:"https://shop.example.com/checkout/cancel"`
} // @name InitiateCheckoutRequest

// CheckoutSessionResponse is the API shape of a pending checkout session.
type CheckoutSessionResponse struct {
	SessionID   uuid.UUID `json:"session_id"`
	RedirectURL string    `json:"redirect_url"`
	TotalCents  int64     `json:"total_cents" example:"500000"`
	CreatedAt   time.Time `json:"created_at"`
} // @name CheckoutSessionResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"cart is empty"`
} // @name CheckoutErrorResponse

// PostCheckoutHandler handles POST /checkout requests.
type PostCheckoutHandler struct {
	svc *appsvcs.Services
}

// NewPostCheckoutHandler returns a PostCheckoutHandler backed by the given services.
func NewPostCheckoutHandler(svc *appsvcs.Services) *PostCheckoutHandler {
	return &PostCheckoutHandler{svc: svc}
}

// Execute initiates checkout for the authenticated user's cart. The cart
// is not cleared; it survives until payment is externally confirmed.
//
//	@Summary		Initiate checkout
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InitiateCheckoutRequest	true	"Redirect targets"
//	@Success		201		{object}	CheckoutSessionResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Cart is empty"
//	@Failure		502		{object}	ErrorResponse	"Payment provider unavailable"
//	@Router			/checkout [post]
func (h *PostCheckoutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[InitiateCheckoutRequest](w, r)
	if !ok {
		return
	}

	session, err := h.svc.Checkout.Initiate(r.Context(), userID, req.SuccessURL, req.CancelURL)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, CheckoutSessionResponse{
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
		TotalCents:  session.TotalCents,
		CreatedAt:   session.CreatedAt,
	})
}
