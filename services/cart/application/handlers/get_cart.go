package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	appsvcs "github.com/ghuser/mintbay/services/cart/application/services"
	"github.com/ghuser/mintbay/services/cart/domain/models"
)

// CartLineResponse is one cart line in API shape.
type CartLineResponse struct {
	ListingID  uuid.UUID `json:"listing_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Title      string    `json:"title" example:"Abstract Dream #7"`
	PriceCents int64     `json:"price_cents" example:"250000"`
	Quantity   int       `json:"quantity" example:"2"`
} // @name CartLineResponse

// CartResponse is the canonical cart representation.
type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	TotalCents int64              `json:"total_cents" example:"500000"`
	ItemCount  int                `json:"item_count" example:"2"`
	UpdatedAt  time.Time          `json:"updated_at"`
} // @name CartResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"insufficient editions available"`
} // @name CartErrorResponse

// ToCartResponse maps a domain Cart to its API shape.
func ToCartResponse(c *models.Cart) CartResponse {
	resp := CartResponse{
		Lines:      make([]CartLineResponse, 0, len(c.Lines)),
		TotalCents: c.TotalCents(),
		ItemCount:  c.ItemCount(),
		UpdatedAt:  c.UpdatedAt,
	}
	for _, line := range c.Lines {
		resp.Lines = append(resp.Lines, CartLineResponse{
			ListingID:  line.Item.ListingID,
			Title:      line.Item.Title,
			PriceCents: line.Item.PriceCents,
			Quantity:   line.Quantity,
		})
	}
	return resp
}

// GetCartHandler handles GET /cart requests.
type GetCartHandler struct {
	svc *appsvcs.Services
}

// NewGetCartHandler returns a GetCartHandler backed by the given services.
func NewGetCartHandler(svc *appsvcs.Services) *GetCartHandler {
	return &GetCartHandler{svc: svc}
}

// Execute returns the authenticated user's cart.
//
//	@Summary		Get cart
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	CartResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/cart [get]
func (h *GetCartHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	cart, err := h.svc.Cart.Get(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ToCartResponse(cart))
}
