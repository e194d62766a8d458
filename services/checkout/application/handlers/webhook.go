package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	pkgvalidator "github.com/ghuser/mintbay/pkg/validator"
	appsvcs "github.com/ghuser/mintbay/services/checkout/application/services"
)

// WebhookRequest is the provider's confirmation callback body.
type WebhookRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Paid      bool   `json:"paid"`
} // @name CheckoutWebhookRequest

// WebhookHandler handles POST /checkout/webhook requests from the payment
// provider.
type WebhookHandler struct {
	svc *appsvcs.Services
}

// NewWebhookHandler returns a WebhookHandler backed by the given services.
func NewWebhookHandler(svc *appsvcs.Services) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// Execute completes or cancels a pending checkout session. Paid sessions
// publish the completion event that clears the cart and decrements edition
// availability downstream.
//
//	@Summary		Payment confirmation webhook
//	@Tags			checkout
//	@Accept			json
//	@Success		204
//	@Failure		404	{object}	ErrorResponse	"Unknown or expired session"
//	@Router			/checkout/webhook [post]
func (h *WebhookHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[WebhookRequest](w, r)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.svc.Checkout.Complete(r.Context(), sessionID, req.Paid); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
