package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is one routed message kept for the operator dashboard.
type ConversationTurn struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CallerId    string    `gorm:"type:varchar(64);not null;index"`
	Input       string    `gorm:"type:text"`
	Normalized  string    `gorm:"type:text"`
	Rule        string    `gorm:"type:varchar(32);index"`
	IntentionId string    `gorm:"type:varchar(64)"`
	Confidence  float64   `gorm:"not null;default:0"`
	StateBefore string    `gorm:"type:varchar(128)"`
	StateAfter  string    `gorm:"type:varchar(128)"`
	ReplyKind   string    `gorm:"type:varchar(16)"`
	ReplyBody   string    `gorm:"type:text"`
	DurationMs  int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}
