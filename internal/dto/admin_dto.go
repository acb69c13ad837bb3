package dto

import (
	"time"

	"virtual-attendant-be/pkg/store"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type IntentionRequest struct {
	Id       string            `json:"id" validate:"required,max=64"`
	Label    string            `json:"label" validate:"max=120"`
	Keywords []string          `json:"keywords" validate:"required_without=Phrases,dive,required"`
	Phrases  []string          `json:"phrases" validate:"required_without=Keywords,dive,required"`
	Priority int               `json:"priority" validate:"gte=0,lte=100"`
	Flow     string            `json:"flow" validate:"required"`
	Step     string            `json:"step"`
	Action   string            `json:"action"`
	Args     map[string]string `json:"args"`
}

type IntentionResponse struct {
	Id       string            `json:"id"`
	Label    string            `json:"label"`
	Keywords []string          `json:"keywords"`
	Phrases  []string          `json:"phrases"`
	Priority int               `json:"priority"`
	State    store.State       `json:"target_state"`
	Action   string            `json:"action"`
	Args     map[string]string `json:"args,omitempty"`
}

type SessionResponse struct {
	CallerId  string               `json:"caller_id"`
	State     store.State          `json:"state"`
	Scratch   map[string]string    `json:"scratch"`
	History   []string             `json:"history"`
	Pending   *store.PendingChoice `json:"pending,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// TurnFilter narrows the turn history listing. Zero values mean no filter.
type TurnFilter struct {
	CallerId string
	Rule     string
	Since    time.Time
	Limit    int
	Offset   int
}

type TurnResponse struct {
	Id          string    `json:"id"`
	CallerId    string    `json:"caller_id"`
	Input       string    `json:"input"`
	Rule        string    `json:"rule"`
	IntentionId string    `json:"intention_id,omitempty"`
	Confidence  float64   `json:"confidence"`
	StateBefore string    `json:"state_before"`
	StateAfter  string    `json:"state_after"`
	ReplyKind   string    `json:"reply_kind"`
	DurationMs  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type TurnListResponse struct {
	Items []TurnResponse `json:"items"`
	Total int64          `json:"total"`
}

type LogListResponse struct {
	Id        string `json:"id"`
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
