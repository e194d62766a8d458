// Package payment implements the HTTP client for the external payment
// provider. Initiation failures of any kind map to ErrProviderUnavailable
// so the application layer has a single sentinel to translate.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	checkoutdomain "github.com/ghuser/mintbay/services/checkout/domain"
	"github.com/ghuser/mintbay/services/checkout/domain/models"
)

// Client talks to the payment provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client for the given provider base URL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type initiateRequest struct {
	SessionID  string        `json:"session_id"`
	UserID     string        `json:"user_id"`
	Lines      []models.Line `json:"lines"`
	TotalCents int64         `json:"total_cents"`
	SuccessURL string        `json:"success_url"`
	CancelURL  string        `json:"cancel_url"`
}

// initiateResponse may carry the error in the body on a 200 status.
type initiateResponse struct {
	RedirectURL string `json:"redirect_url"`
	Error       string `json:"error"`
}

// Initiate registers the session with the provider and returns the URL the
// buyer must be redirected to.
func (c *Client) Initiate(ctx context.Context, session *models.CheckoutSession) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("%w: provider URL not configured", checkoutdomain.ErrProviderUnavailable)
	}

	body, err := json.Marshal(initiateRequest{
		SessionID:  session.ID.String(),
		UserID:     session.UserID.String(),
		Lines:      session.Lines,
		TotalCents: session.TotalCents,
		SuccessURL: session.SuccessURL,
		CancelURL:  session.CancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("encode initiation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", checkoutdomain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: status %d", checkoutdomain.ErrProviderUnavailable, resp.StatusCode)
	}

	var decoded initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", checkoutdomain.ErrProviderUnavailable, err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("%w: %s", checkoutdomain.ErrProviderUnavailable, decoded.Error)
	}
	if decoded.RedirectURL == "" {
		return "", fmt.Errorf("%w: response missing redirect_url", checkoutdomain.ErrProviderUnavailable)
	}
	return decoded.RedirectURL, nil
}
