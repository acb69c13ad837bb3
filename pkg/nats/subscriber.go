package nats

import (
	"context"
	"errors"
	"fmt"

	"virtual-attendant-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one delivered event. Returning an error redelivers it.
type EventHandler func(ctx context.Context, env events.Envelope) error

// ErrPoison marks a message that must not be redelivered.
var ErrPoison = errors.New("poison message")

// Subscriber handles listening for events from NATS.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe attaches handler to a durable consumer filtered on subject. The
// returned stop function drains the consumer.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durableName string, handler EventHandler) (func(), error) {
	if err := ensureStream(ctx, s.js); err != nil {
		return nil, err
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		Deliver(ctx, msg, handler)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return cc.Stop, nil
}

// Acker is the acknowledgement surface of a delivered message.
type Acker interface {
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

// Deliver decodes msg and settles it according to the handler outcome:
// undecodable or poison messages are terminated, other failures are redelivered.
func Deliver(ctx context.Context, msg Acker, handler EventHandler) {
	env, err := events.Decode(msg.Data())
	if err != nil {
		_ = msg.Term()
		return
	}

	if err := handler(ctx, env); err != nil {
		if errors.Is(err, ErrPoison) {
			_ = msg.Term()
			return
		}
		_ = msg.Nak()
		return
	}
	_ = msg.Ack()
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
