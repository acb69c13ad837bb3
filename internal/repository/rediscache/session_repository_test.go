package rediscache

import (
	"context"
	"os"
	"testing"
	"time"

	"virtual-attendant-be/pkg/store"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Needs a reachable Redis; set REDIS_TEST_URL to run.
func newTestRepository(t *testing.T) *SessionRepository {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return NewSessionRepository(rdb, time.Minute)
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	callerID := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = repo.Delete(ctx, callerID) })

	sess := store.NewSession(callerID)
	sess.State = store.At("CERTIDAO", "awaiting_confirmation")
	sess.Pending = &store.PendingChoice{Candidates: []string{"DEBITOS"}, Previous: store.Idle}
	sess.PushHistory("CERTIDAO")
	require.NoError(t, repo.Put(ctx, sess))

	got, found, err := repo.Get(ctx, callerID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sess.State, got.State)
	assert.Equal(t, sess.Pending, got.Pending)
	assert.Equal(t, []string{"CERTIDAO"}, got.History)

	ttl, err := repo.rdb.TTL(ctx, key(callerID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, repo.Delete(ctx, callerID))
	_, found, err = repo.Get(ctx, callerID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "attendant:session:5511", key("5511"))
}
