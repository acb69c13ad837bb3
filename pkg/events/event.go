// Package events defines the messages the attendant exchanges over the bus.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"

	"github.com/google/uuid"
)

const (
	TypeInboundMessage = "INBOUND_MESSAGE"
	TypeOutboundReply  = "OUTBOUND_REPLY"
	TypeTurnRouted     = "TURN_ROUTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INBOUND_MESSAGE").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Subject is the bus subject an event is published on.
func Subject(e Event) string {
	return "events." + e.EventType()
}

// Envelope is the wire form of every event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Encode wraps e in an envelope with a fresh id.
func Encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventType(), err)
	}
	return json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       e.EventType(),
		OccurredAt: e.Timestamp(),
		Data:       data,
	})
}

func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// Into unmarshals the envelope payload into v.
func (e Envelope) Into(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// InboundMessage is a caller message delivered by the messaging gateway.
type InboundMessage struct {
	CallerID   string    `json:"caller_id"`
	Text       string    `json:"text"`
	Channel    string    `json:"channel,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

func (e InboundMessage) EventType() string    { return TypeInboundMessage }
func (e InboundMessage) Timestamp() time.Time { return e.ReceivedAt }

// OutboundReply is what the gateway should send back to the caller.
type OutboundReply struct {
	CallerID string      `json:"caller_id"`
	Reply    reply.Reply `json:"reply"`
	State    store.State `json:"state"`
	SentAt   time.Time   `json:"sent_at"`
}

func (e OutboundReply) EventType() string    { return TypeOutboundReply }
func (e OutboundReply) Timestamp() time.Time { return e.SentAt }
