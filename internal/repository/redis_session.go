package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/redis/go-redis/v9"
)

// redisSessionStore keeps each session under its own key; every save refreshes the TTL.
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) port.SessionStore {
	return &redisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *redisSessionStore) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, fmt.Errorf("sessionID is empty")
	}

	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, fmt.Errorf("session[%s]: %w", sessionID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, &domain.PersistenceError{Op: "get", Path: sessionKey(sessionID), Err: err}
	}

	return decodeSession(data)
}

func (r *redisSessionStore) Save(ctx context.Context, session domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	data, err := json.Marshal(mapSessionToRecord(session))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), data, r.ttl).Err(); err != nil {
		return &domain.PersistenceError{Op: "set", Path: sessionKey(session.ID), Err: err}
	}

	return nil
}

func (r *redisSessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, fmt.Errorf("sessionID is empty")
	}

	n, err := r.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, &domain.PersistenceError{Op: "del", Path: sessionKey(sessionID), Err: err}
	}

	return n > 0, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
