package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/mintbay/pkg/logger"
	cartmodels "github.com/ghuser/mintbay/services/cart/domain/models"
	checkoutdomain "github.com/ghuser/mintbay/services/checkout/domain"
	domainevents "github.com/ghuser/mintbay/services/checkout/domain/events"
	"github.com/ghuser/mintbay/services/checkout/domain/models"
)

// CartReader provides the user's current cart. Implemented by the cart
// context's CartService.
type CartReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*cartmodels.Cart, error)
}

// PaymentInitiator registers a session with the payment provider and
// returns the buyer redirect URL.
type PaymentInitiator interface {
	Initiate(ctx context.Context, session *models.CheckoutSession) (string, error)
}

// SessionStore persists pending checkout sessions between initiation and
// external confirmation.
type SessionStore interface {
	Save(ctx context.Context, session *models.CheckoutSession) error
	Get(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Publisher publishes checkout events. Satisfied by events.EventBus.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// CheckoutService is the boundary between the storefront and the payment
// provider. The cart invariant it guards: a cart is never cleared at
// initiation, only after the provider confirms payment and the completion
// event is consumed.
type CheckoutService struct {
	carts    CartReader
	payments PaymentInitiator
	sessions SessionStore
	bus      Publisher
	log      logger.Logger
}

// NewCheckoutService wires the checkout boundary.
func NewCheckoutService(carts CartReader, payments PaymentInitiator, sessions SessionStore, bus Publisher, log logger.Logger) *CheckoutService {
	return &CheckoutService{carts: carts, payments: payments, sessions: sessions, bus: bus, log: log}
}

// Initiate freezes the user's cart into a session, registers it with the
// payment provider, and returns the session holding the redirect URL.
// The cart itself is left untouched.
func (s *CheckoutService) Initiate(ctx context.Context, userID uuid.UUID, successURL, cancelURL string) (*models.CheckoutSession, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.Empty() {
		return nil, checkoutdomain.ErrCartEmpty
	}

	session := models.NewSession(userID, cart, successURL, cancelURL)

	redirect, err := s.payments.Initiate(ctx, session)
	if err != nil {
		return nil, err
	}
	session.RedirectURL = redirect

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.log.InfoContext(ctx, "checkout initiated",
		"session_id", session.ID,
		"user_id", userID,
		"total_cents", session.TotalCents,
	)
	return session, nil
}

// Complete handles the provider's confirmation callback. A paid session
// publishes CheckoutCompletedEvent; an unpaid (canceled) one is simply
// discarded and the cart survives. Either way the pending session is gone
// afterwards, so replayed callbacks are no-ops.
func (s *CheckoutService) Complete(ctx context.Context, sessionID uuid.UUID, paid bool) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if paid {
		if err := s.publishCompleted(ctx, session); err != nil {
			return fmt.Errorf("publish completion: %w", err)
		}
	} else {
		s.log.InfoContext(ctx, "checkout canceled, cart retained",
			"session_id", sessionID,
			"user_id", session.UserID,
		)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *CheckoutService) publishCompleted(ctx context.Context, session *models.CheckoutSession) error {
	lines := make([]domainevents.CompletedLine, 0, len(session.Lines))
	for _, l := range session.Lines {
		lines = append(lines, domainevents.CompletedLine{ListingID: l.ListingID, Quantity: l.Quantity})
	}
	event := domainevents.CheckoutCompletedEvent{
		EventID:     uuid.New(),
		Version:     1,
		SessionID:   session.ID,
		UserID:      session.UserID,
		Lines:       lines,
		TotalCents:  session.TotalCents,
		CompletedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	return s.bus.Publish(ctx, domainevents.TopicCheckoutCompleted, msg)
}
