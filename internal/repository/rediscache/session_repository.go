// Package rediscache stores caller sessions in Redis so several attendant
// instances can serve the same callers.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"virtual-attendant-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "attendant:session:"

type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ store.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func key(callerID string) string {
	return keyPrefix + callerID
}

func (r *SessionRepository) Get(ctx context.Context, callerID string) (*store.Session, bool, error) {
	raw, err := r.rdb.Get(ctx, key(callerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get session %s: %w", callerID, err)
	}

	var sess store.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", callerID, err)
	}
	if sess.Scratch == nil {
		sess.Scratch = map[string]string{}
	}
	return &sess, true, nil
}

// Put writes the session and refreshes its expiry.
func (r *SessionRepository) Put(ctx context.Context, session *store.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.CallerID, err)
	}
	if err := r.rdb.Set(ctx, key(session.CallerID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis put session %s: %w", session.CallerID, err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, callerID string) error {
	if err := r.rdb.Del(ctx, key(callerID)).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", callerID, err)
	}
	return nil
}
