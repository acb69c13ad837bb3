package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"virtual-attendant-be/internal/dto"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/events"
	natsbus "virtual-attendant-be/pkg/nats"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendant struct {
	got []dto.MessageRequest
	err error
}

func (s *stubAttendant) HandleMessage(_ context.Context, req *dto.MessageRequest) (*dto.MessageResponse, error) {
	s.got = append(s.got, *req)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MessageResponse{CallerId: req.CallerId, Reply: reply.Text("eco: " + req.Text), State: store.Idle}, nil
}

type recordingPublisher struct {
	published []events.Event
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return p.err
}

type stubSubscriber struct {
	subject, durable string
	handler          natsbus.EventHandler
}

func (s *stubSubscriber) Subscribe(_ context.Context, subject, durable string, h natsbus.EventHandler) (func(), error) {
	s.subject, s.durable, s.handler = subject, durable, h
	return func() {}, nil
}

func envelope(t *testing.T, e events.Event) events.Envelope {
	t.Helper()
	raw, err := events.Encode(e)
	require.NoError(t, err)
	env, err := events.Decode(raw)
	require.NoError(t, err)
	return env
}

func TestInboundPublishesReply(t *testing.T) {
	att := &stubAttendant{}
	pub := &recordingPublisher{}
	sub := &stubSubscriber{}
	svc := NewInboundService(att, sub, pub, "events.INBOUND_MESSAGE", "attendant", logger.NewNopLogger())

	stop, err := svc.Start(context.Background())
	require.NoError(t, err)
	defer stop()
	assert.Equal(t, "events.INBOUND_MESSAGE", sub.subject)
	assert.Equal(t, "attendant", sub.durable)

	err = sub.handler(context.Background(), envelope(t, events.InboundMessage{CallerID: "5511", Text: "menu", ReceivedAt: time.Now()}))
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	out, ok := pub.published[0].(events.OutboundReply)
	require.True(t, ok)
	assert.Equal(t, "5511", out.CallerID)
	assert.Equal(t, "eco: menu", out.Reply.Body)
}

func TestInboundRejectsBadMessagesAsPoison(t *testing.T) {
	att := &stubAttendant{err: ErrInvalidMessage}
	svc := NewInboundService(att, &stubSubscriber{}, &recordingPublisher{}, "s", "d", logger.NewNopLogger())

	err := svc.Handle(context.Background(), envelope(t, events.InboundMessage{Text: "oi"}))
	assert.ErrorIs(t, err, natsbus.ErrPoison)

	broken := events.Envelope{Type: events.TypeInboundMessage, Data: json.RawMessage(`"nope"`)}
	err = svc.Handle(context.Background(), broken)
	assert.ErrorIs(t, err, natsbus.ErrPoison)
}

func TestInboundDoesNotRedeliverRoutedMessage(t *testing.T) {
	att := &stubAttendant{}
	pub := &recordingPublisher{err: errors.New("nats down")}
	svc := NewInboundService(att, &stubSubscriber{}, pub, "s", "d", logger.NewNopLogger())

	err := svc.Handle(context.Background(), envelope(t, events.InboundMessage{CallerID: "5511", Text: "1"}))
	assert.NoError(t, err)
	assert.Len(t, att.got, 1)
}

func TestInboundIgnoresOtherEvents(t *testing.T) {
	att := &stubAttendant{}
	svc := NewInboundService(att, &stubSubscriber{}, &recordingPublisher{}, "s", "d", logger.NewNopLogger())

	err := svc.Handle(context.Background(), envelope(t, events.OutboundReply{CallerID: "5511"}))
	assert.NoError(t, err)
	assert.Empty(t, att.got)
}
