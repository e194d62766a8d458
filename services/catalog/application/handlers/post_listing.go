package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/auth"
	"github.com/ghuser/mintbay/pkg/errhttp"
	"github.com/ghuser/mintbay/pkg/httpx"
	pkgvalidator "github.com/ghuser/mintbay/pkg/validator"
	appsvcs "github.com/ghuser/mintbay/services/catalog/application/services"
	"github.com/ghuser/mintbay/services/catalog/domain/models"
)

// CreateListingRequest is the request body for POST /listings.
type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255" example:"Abstract Dream #7"`
	Description string   `json:"description" validate:"max=4000" example:"Generative abstract piece"`
	PriceCents  int64    `json:"price_cents" validate:"gte=0" example:"250000"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url" example:"https://cdn.example.com/7.png"`
	Category    string   `json:"category" validate:"required,max=64" example:"art"`
	Tags        []string `json:"tags" validate:"max=16,dive,min=1,max=64" example:"abstract,generative"`
	Editions    int      `json:"editions" validate:"gte=1,lte=10000" example:"10"`
	CreatorName string   `json:"creator_name" validate:"required,max=255" example:"mintr"`
	AvatarURL   string   `json:"avatar_url" validate:"omitempty,url" example:"https://cdn.example.com/a.png"`
} // @name CreateListingRequest

// ListingResponse is the canonical listing representation.
type ListingResponse struct {
	ID                uuid.UUID `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Title             string    `json:"title" example:"Abstract Dream #7"`
	Description       string    `json:"description" example:"Generative abstract piece"`
	PriceCents        int64     `json:"price_cents" example:"250000"`
	ImageURL          string    `json:"image_url,omitempty"`
	Category          string    `json:"category" example:"art"`
	Tags              []string  `json:"tags"`
	EditionsTotal     int       `json:"editions_total" example:"10"`
	EditionsAvailable int       `json:"editions_available" example:"10"`
	Likes             int64     `json:"likes" example:"0"`
	Views             int64     `json:"views" example:"0"`
	Listed            bool      `json:"listed" example:"true"`
	CreatedAt         time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	CreatorName       string    `json:"creator_name" example:"mintr"`
	CreatorAvatarURL  string    `json:"creator_avatar_url,omitempty"`
} // @name ListingResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"listing not found"`
} // @name ErrorResponse

// ToListingResponse maps a domain Listing to its API shape.
func ToListingResponse(l *models.Listing) ListingResponse {
	return ListingResponse{
		ID:                l.ID,
		Title:             l.Title.String(),
		Description:       l.Description,
		PriceCents:        l.PriceCents,
		ImageURL:          l.ImageURL,
		Category:          l.Category,
		Tags:              l.Tags,
		EditionsTotal:     l.EditionsTotal,
		EditionsAvailable: l.EditionsAvailable,
		Likes:             l.Likes,
		Views:             l.Views,
		Listed:            l.Listed,
		CreatedAt:         l.CreatedAt,
		CreatorName:       l.Creator.Name,
		CreatorAvatarURL:  l.Creator.AvatarURL,
	}
}

// PostListingHandler handles POST /listings requests.
type PostListingHandler struct {
	svc *appsvcs.Services
}

// NewPostListingHandler returns a PostListingHandler backed by the given services.
func NewPostListingHandler(svc *appsvcs.Services) *PostListingHandler {
	return &PostListingHandler{svc: svc}
}

// Execute creates a new listing.
//
//	@Summary		Create listing
//	@Description	Mints a new catalog listing owned by the authenticated user
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateListingRequest	true	"Listing creation request"
//	@Success		201		{object}	ListingResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/listings [post]
func (h *PostListingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateListingRequest](w, r)
	if !ok {
		return
	}

	listing, err := h.svc.Catalog.Create(r.Context(), appsvcs.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Tags:        req.Tags,
		Editions:    req.Editions,
		Creator: models.Creator{
			ID:        userID,
			Name:      req.CreatorName,
			AvatarURL: req.AvatarURL,
		},
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, ToListingResponse(listing))
}
