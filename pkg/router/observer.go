package router

import (
	"context"
	"time"

	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
)

// Turn is the audit record of one routed message.
type Turn struct {
	CallerID    string        `json:"caller_id"`
	Input       string        `json:"input"`
	Normalized  string        `json:"normalized"`
	Rule        string        `json:"rule"`
	IntentionID string        `json:"intention_id,omitempty"`
	Confidence  float64       `json:"confidence"`
	Before      store.State   `json:"before"`
	After       store.State   `json:"after"`
	Reply       reply.Reply   `json:"reply"`
	Duration    time.Duration `json:"duration"`
	At          time.Time     `json:"at"`
}

// TurnObserver is notified after every turn has been stored. Implementations
// must not block the caller's turn.
type TurnObserver interface {
	ObserveTurn(ctx context.Context, t Turn)
}

type ObserverFunc func(ctx context.Context, t Turn)

func (f ObserverFunc) ObserveTurn(ctx context.Context, t Turn) { f(ctx, t) }
