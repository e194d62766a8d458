// Package redis stores pending checkout sessions as JSON documents.
//
// Key layout: "checkout:session:{sessionID}". Sessions expire after the
// configured TTL; an expired session means the buyer abandoned checkout and
// the provider will never confirm it.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ghuser/mintbay/pkg/cache"
	checkoutdomain "github.com/ghuser/mintbay/services/checkout/domain"
	"github.com/ghuser/mintbay/services/checkout/domain/models"
)

const sessionKeyPrefix = "checkout:session:"

// SessionStore persists pending checkout sessions in Redis.
type SessionStore struct {
	client *cache.RedisClient
	ttl    time.Duration
}

// NewSessionStore returns a SessionStore with the given session TTL.
func NewSessionStore(client *cache.RedisClient, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Save writes the session document with the configured TTL.
func (s *SessionStore) Save(ctx context.Context, session *models.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Client().Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get loads a pending session. A missing or expired key yields
// ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error) {
	data, err := s.client.Client().Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, checkoutdomain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session models.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting an absent session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Client().Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}
