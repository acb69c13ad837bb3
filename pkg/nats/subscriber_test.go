package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"virtual-attendant-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMsg struct {
	data                []byte
	acked, naked, termd bool
}

func (m *fakeMsg) Data() []byte { return m.data }
func (m *fakeMsg) Ack() error   { m.acked = true; return nil }
func (m *fakeMsg) Nak() error   { m.naked = true; return nil }
func (m *fakeMsg) Term() error  { m.termd = true; return nil }

func inbound(t *testing.T) []byte {
	t.Helper()
	raw, err := events.Encode(events.InboundMessage{CallerID: "5511", Text: "menu", ReceivedAt: time.Now()})
	require.NoError(t, err)
	return raw
}

func TestDeliverSettlesMessages(t *testing.T) {
	ok := func(context.Context, events.Envelope) error { return nil }
	transient := func(context.Context, events.Envelope) error { return errors.New("store down") }
	poison := func(context.Context, events.Envelope) error { return fmt.Errorf("empty caller: %w", ErrPoison) }

	tests := []struct {
		name    string
		data    []byte
		handler EventHandler
		want    string
	}{
		{"handled", inbound(t), ok, "ack"},
		{"transient failure", inbound(t), transient, "nak"},
		{"poison", inbound(t), poison, "term"},
		{"garbage", []byte("{"), ok, "term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &fakeMsg{data: tt.data}
			Deliver(context.Background(), msg, tt.handler)
			assert.Equal(t, tt.want == "ack", msg.acked)
			assert.Equal(t, tt.want == "nak", msg.naked)
			assert.Equal(t, tt.want == "term", msg.termd)
		})
	}
}
