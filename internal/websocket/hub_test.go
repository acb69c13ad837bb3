package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/router"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fakeClient(hub *Hub, buf int) *Client {
	return &Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte, buf)}
}

func TestHubBroadcastsTurns(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	a, b := fakeClient(hub, 4), fakeClient(hub, 4)
	hub.register <- a
	hub.register <- b
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.BroadcastTurn(ctx, router.Turn{CallerID: "5511", Rule: "menu_code"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var got struct {
				Type string      `json:"type"`
				Data router.Turn `json:"data"`
			}
			require.NoError(t, json.Unmarshal(msg, &got))
			assert.Equal(t, "turn", got.Type)
			assert.Equal(t, "5511", got.Data.CallerID)
		case <-time.After(time.Second):
			t.Fatal("turn not delivered")
		}
	}

	hub.unregister <- a
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)

	cancel()
	<-done
	_, open = <-b.Send
	assert.False(t, open)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	slow := fakeClient(hub, 0)
	hub.register <- slow
	hub.BroadcastTurn(ctx, router.Turn{CallerID: "x"})

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}
