package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/config"
	"github.com/ghuser/mintbay/pkg/logger"
	cartmodels "github.com/ghuser/mintbay/services/cart/domain/models"
	checkoutdomain "github.com/ghuser/mintbay/services/checkout/domain"
	domainevents "github.com/ghuser/mintbay/services/checkout/domain/events"
	"github.com/ghuser/mintbay/services/checkout/domain/models"
)

type fakeCarts struct {
	cart *cartmodels.Cart
	err  error
}

func (f *fakeCarts) Get(_ context.Context, _ uuid.UUID) (*cartmodels.Cart, error) {
	return f.cart, f.err
}

type fakePayments struct {
	redirect string
	err      error
	calls    int
}

func (f *fakePayments) Initiate(_ context.Context, _ *models.CheckoutSession) (string, error) {
	f.calls++
	return f.redirect, f.err
}

type fakeSessions struct {
	stored  map[uuid.UUID]*models.CheckoutSession
	saveErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{stored: make(map[uuid.UUID]*models.CheckoutSession)}
}

func (f *fakeSessions) Save(_ context.Context, s *models.CheckoutSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored[s.ID] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id uuid.UUID) (*models.CheckoutSession, error) {
	s, ok := f.stored[id]
	if !ok {
		return nil, checkoutdomain.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessions) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.stored, id)
	return nil
}

type fakeBus struct {
	topics   []string
	messages []*message.Message
	err      error
}

func (f *fakeBus) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.messages = append(f.messages, msgs...)
	return nil
}

func cartWith(userID uuid.UUID, priceCents int64, qty int) *cartmodels.Cart {
	cart := cartmodels.NewCart(userID)
	item := cartmodels.LineItem{ListingID: uuid.New(), Title: "Print", PriceCents: priceCents}
	cart.Add(item)
	for i := 1; i < qty; i++ {
		cart.Add(item)
	}
	return cart
}

func newCheckoutFixture(carts *fakeCarts) (*CheckoutService, *fakePayments, *fakeSessions, *fakeBus) {
	payments := &fakePayments{redirect: "https://pay.example/s/abc"}
	sessions := newFakeSessions()
	bus := &fakeBus{}
	log := logger.New(&config.Config{LogLevel: "error"})
	return NewCheckoutService(carts, payments, sessions, bus, log), payments, sessions, bus
}

func TestInitiate(t *testing.T) {
	userID := uuid.New()

	t.Run("freezes the cart into a stored session", func(t *testing.T) {
		cart := cartWith(userID, 1500, 2)
		svc, _, sessions, _ := newCheckoutFixture(&fakeCarts{cart: cart})

		session, err := svc.Initiate(context.Background(), userID, "https://shop/ok", "https://shop/cancel")
		if err != nil {
			t.Fatalf("initiate: %v", err)
		}
		if session.RedirectURL != "https://pay.example/s/abc" {
			t.Fatalf("expected the provider redirect, got %q", session.RedirectURL)
		}
		if session.TotalCents != 3000 {
			t.Fatalf("expected total 3000, got %d", session.TotalCents)
		}
		if _, ok := sessions.stored[session.ID]; !ok {
			t.Fatal("session must be persisted")
		}

		// The invariant: initiation never touches the cart.
		if cart.Empty() || cart.ItemCount() != 2 {
			t.Fatal("initiation must leave the cart untouched")
		}
	})

	t.Run("session lines are copies, not cart references", func(t *testing.T) {
		cart := cartWith(userID, 1000, 1)
		svc, _, _, _ := newCheckoutFixture(&fakeCarts{cart: cart})

		session, err := svc.Initiate(context.Background(), userID, "https://shop/ok", "https://shop/cancel")
		if err != nil {
			t.Fatalf("initiate: %v", err)
		}

		// Cart edits after initiation must not change the frozen session.
		cart.Clear()
		if len(session.Lines) != 1 || session.TotalCents != 1000 {
			t.Fatal("a cleared cart must not alter the frozen session")
		}
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		svc, payments, _, _ := newCheckoutFixture(&fakeCarts{cart: cartmodels.NewCart(userID)})

		_, err := svc.Initiate(context.Background(), userID, "https://shop/ok", "https://shop/cancel")
		if !errors.Is(err, checkoutdomain.ErrCartEmpty) {
			t.Fatalf("expected ErrCartEmpty, got %v", err)
		}
		if payments.calls != 0 {
			t.Fatal("provider must not be contacted for an empty cart")
		}
	})

	t.Run("provider failure leaves no session behind", func(t *testing.T) {
		svc, payments, sessions, _ := newCheckoutFixture(&fakeCarts{cart: cartWith(userID, 1000, 1)})
		payments.err = checkoutdomain.ErrProviderUnavailable

		_, err := svc.Initiate(context.Background(), userID, "https://shop/ok", "https://shop/cancel")
		if !errors.Is(err, checkoutdomain.ErrProviderUnavailable) {
			t.Fatalf("expected ErrProviderUnavailable, got %v", err)
		}
		if len(sessions.stored) != 0 {
			t.Fatal("no session may be stored when the provider refused")
		}
	})
}

func TestComplete(t *testing.T) {
	userID := uuid.New()

	initiate := func(t *testing.T) (*CheckoutService, *fakeSessions, *fakeBus, *models.CheckoutSession) {
		t.Helper()
		svc, _, sessions, bus := newCheckoutFixture(&fakeCarts{cart: cartWith(userID, 2000, 1)})
		session, err := svc.Initiate(context.Background(), userID, "https://shop/ok", "https://shop/cancel")
		if err != nil {
			t.Fatalf("initiate: %v", err)
		}
		return svc, sessions, bus, session
	}

	t.Run("paid publishes the completion event and discards the session", func(t *testing.T) {
		svc, sessions, bus, session := initiate(t)

		if err := svc.Complete(context.Background(), session.ID, true); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if len(bus.topics) != 1 || bus.topics[0] != domainevents.TopicCheckoutCompleted {
			t.Fatalf("expected one %s event, got %v", domainevents.TopicCheckoutCompleted, bus.topics)
		}

		var evt domainevents.CheckoutCompletedEvent
		if err := json.Unmarshal(bus.messages[0].Payload, &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if evt.SessionID != session.ID || evt.UserID != userID || evt.TotalCents != 2000 {
			t.Fatalf("event mismatch: %+v", evt)
		}
		if len(evt.Lines) != 1 || evt.Lines[0].Quantity != 1 {
			t.Fatalf("event lines mismatch: %+v", evt.Lines)
		}
		if got := bus.messages[0].Metadata.Get("event_id"); got != evt.EventID.String() {
			t.Fatal("message metadata must carry the event id")
		}

		if _, ok := sessions.stored[session.ID]; ok {
			t.Fatal("completed session must be deleted")
		}
	})

	t.Run("unpaid discards the session without publishing", func(t *testing.T) {
		svc, sessions, bus, session := initiate(t)

		if err := svc.Complete(context.Background(), session.ID, false); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if len(bus.topics) != 0 {
			t.Fatal("a canceled checkout must publish nothing")
		}
		if _, ok := sessions.stored[session.ID]; ok {
			t.Fatal("canceled session must still be deleted")
		}
	})

	t.Run("replayed callback is a no-op", func(t *testing.T) {
		svc, _, bus, session := initiate(t)

		if err := svc.Complete(context.Background(), session.ID, true); err != nil {
			t.Fatalf("first complete: %v", err)
		}
		err := svc.Complete(context.Background(), session.ID, true)
		if !errors.Is(err, checkoutdomain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound on replay, got %v", err)
		}
		if len(bus.topics) != 1 {
			t.Fatal("replay must not publish a second event")
		}
	})

	t.Run("unknown session surfaces ErrSessionNotFound", func(t *testing.T) {
		svc, _, _, _ := newCheckoutFixture(&fakeCarts{cart: cartmodels.NewCart(userID)})
		if err := svc.Complete(context.Background(), uuid.New(), true); !errors.Is(err, checkoutdomain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("publish failure keeps the session for retry", func(t *testing.T) {
		svc, sessions, bus, session := initiate(t)
		bus.err = errors.New("broker down")

		if err := svc.Complete(context.Background(), session.ID, true); err == nil {
			t.Fatal("expected the publish failure to propagate")
		}
		if _, ok := sessions.stored[session.ID]; !ok {
			t.Fatal("session must survive so the callback can be retried")
		}
	})
}
