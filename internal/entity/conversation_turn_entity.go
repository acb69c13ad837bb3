package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationTurn struct {
	Id          uuid.UUID
	CallerId    string
	Input       string
	Normalized  string
	Rule        string
	IntentionId string
	Confidence  float64
	StateBefore string
	StateAfter  string
	ReplyKind   string
	ReplyBody   string
	Duration    time.Duration
	CreatedAt   time.Time
}
