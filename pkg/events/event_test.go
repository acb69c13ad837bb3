package events

import (
	"testing"
	"time"

	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInbound(t *testing.T) {
	at := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	raw, err := Encode(InboundMessage{CallerID: "5511", Text: "2 via do iptu", ReceivedAt: at})
	require.NoError(t, err)

	env, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeInboundMessage, env.Type)
	assert.NotEmpty(t, env.ID)
	assert.True(t, at.Equal(env.OccurredAt))

	var msg InboundMessage
	require.NoError(t, env.Into(&msg))
	assert.Equal(t, "5511", msg.CallerID)
	assert.Equal(t, "2 via do iptu", msg.Text)
}

func TestSubject(t *testing.T) {
	out := OutboundReply{CallerID: "5511", Reply: reply.Text("oi"), State: store.Idle}
	assert.Equal(t, "events.OUTBOUND_REPLY", Subject(out))
	assert.Equal(t, "events.INBOUND_MESSAGE", Subject(InboundMessage{}))
}

func TestDecodeRejectsUntyped(t *testing.T) {
	_, err := Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
