package memory

import (
	"context"
	"time"

	"virtual-attendant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps caller sessions in process memory. Entries expire
// after ttl without activity.
type SessionRepository struct {
	cache *cache.Cache
}

var _ store.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// purge expired items every 10 minutes, or faster for short ttls
	cleanup := 10 * time.Minute
	if ttl < cleanup {
		cleanup = ttl
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

// Put stores a copy so callers can keep mutating their session value.
func (r *SessionRepository) Put(_ context.Context, session *store.Session) error {
	r.cache.Set(session.CallerID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, callerID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(callerID); found {
		return x.(*store.Session).Clone(), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, callerID string) error {
	r.cache.Delete(callerID)
	return nil
}

// Count returns the number of live sessions, expired ones included until purged.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
