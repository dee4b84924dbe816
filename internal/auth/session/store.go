package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hlzx-oa/project-registry/internal/auth/domain"
)

const keyPrefix = "pr:session:" // pr:session:{session_id}

// Store keeps login sessions in Redis. Expiry is handled entirely by
// key TTL; Get refreshes it so active users stay logged in.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create mints a new session id for the user and stores the session
// under it with the configured TTL.
func (s *Store) Create(ctx context.Context, sess domain.Session) (string, error) {
	sid := uuid.NewString()

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sid), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sid, nil
}

// Get resolves a session id and slides its expiry window.
func (s *Store) Get(ctx context.Context, sid string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	s.client.Expire(ctx, s.key(sid), s.ttl)
	return &sess, nil
}

// Delete logs the session out. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}

func (s *Store) key(sid string) string {
	return keyPrefix + sid
}
