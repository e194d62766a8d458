package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	cartmodels "github.com/ghuser/mintbay/services/cart/domain/models"
	checkoutdomain "github.com/ghuser/mintbay/services/checkout/domain"
	"github.com/ghuser/mintbay/services/checkout/domain/models"
)

func testSession() *models.CheckoutSession {
	cart := cartmodels.NewCart(uuid.New())
	cart.Add(cartmodels.LineItem{ListingID: uuid.New(), Title: "Print", PriceCents: 2500})
	return models.NewSession(cart.UserID, cart, "https://shop/ok", "https://shop/cancel")
}

func TestInitiate_success(t *testing.T) {
	session := testSession()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var req struct {
			SessionID  string `json:"session_id"`
			TotalCents int64  `json:"total_cents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID != session.ID.String() || req.TotalCents != 2500 {
			t.Errorf("unexpected request body: %+v (%v)", req, err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"redirect_url":"https://pay.example/s/abc"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk-test", 5*time.Second)
	redirect, err := client.Initiate(context.Background(), session)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if redirect != "https://pay.example/s/abc" {
		t.Fatalf("unexpected redirect %q", redirect)
	}
}

func TestInitiate_failureModesMapToProviderUnavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"soft error in a 200 body", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"error":"card networks unreachable"}`)
		}},
		{"missing redirect_url", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{}`)
		}},
		{"server error status", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"redirect_url": `)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewClient(srv.URL, "sk-test", 5*time.Second)
			_, err := client.Initiate(context.Background(), testSession())
			if !errors.Is(err, checkoutdomain.ErrProviderUnavailable) {
				t.Fatalf("expected ErrProviderUnavailable, got %v", err)
			}
		})
	}
}

func TestInitiate_unconfiguredProvider(t *testing.T) {
	client := NewClient("", "sk-test", time.Second)
	_, err := client.Initiate(context.Background(), testSession())
	if !errors.Is(err, checkoutdomain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestInitiate_unreachableProvider(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "sk-test", 500*time.Millisecond)
	_, err := client.Initiate(context.Background(), testSession())
	if !errors.Is(err, checkoutdomain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNewClient_trimsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"redirect_url":"https://pay.example/s/abc"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "sk-test", 5*time.Second)
	if _, err := client.Initiate(context.Background(), testSession()); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if gotPath != "/sessions" {
		t.Fatalf("expected /sessions, got %q", gotPath)
	}
}
