package store

import (
	"context"
	"fmt"
	"time"
)

// FlowID identifies which flow owns a caller.
type FlowID string

// Step identifies a position inside a flow.
type Step string

const (
	// FlowMenu is the idle state: the caller sits at the main menu.
	FlowMenu FlowID = "MENU_PRINCIPAL"

	// Router-owned short-lived states.
	FlowDisambiguation FlowID = "DESAMBIGUACAO"
	FlowContextChange  FlowID = "MUDANCA_CONTEXTO"

	StepAwaitingChoice Step = "awaiting_choice"
)

// MaxHistory bounds the per-caller intention history.
const MaxHistory = 10

// State is the flow+step pair that owns a caller. The zero value is idle.
type State struct {
	Flow FlowID `json:"flow"`
	Step Step   `json:"step,omitempty"`
}

// Idle is the main menu state.
var Idle = State{Flow: FlowMenu}

// At builds the state for step of flow.
func At(flow FlowID, step Step) State {
	return State{Flow: flow, Step: step}
}

func (s State) IsIdle() bool {
	return (s.Flow == "" || s.Flow == FlowMenu) && s.Step == ""
}

// IsRouterOwned reports whether the state is a pending choice managed by the router itself.
func (s State) IsRouterOwned() bool {
	return s.Flow == FlowDisambiguation || s.Flow == FlowContextChange
}

func (s State) String() string {
	if s.IsIdle() {
		return string(FlowMenu)
	}
	if s.Step == "" {
		return string(s.Flow)
	}
	return fmt.Sprintf("%s/%s", s.Flow, s.Step)
}

// Canonical maps every idle spelling to Idle.
func (s State) Canonical() State {
	if s.IsIdle() {
		return Idle
	}
	return s
}

// PendingChoice is the router's scratchpad while it waits for the caller to
// pick between options it offered.
type PendingChoice struct {
	// Candidates are intention ids in the order they were listed.
	Candidates []string `json:"candidates"`
	// Previous is the state to resume when the caller goes back.
	Previous State `json:"previous"`
}

// Session represents the conversational state of a single caller
type Session struct {
	CallerID string            `json:"caller_id"`
	State    State             `json:"state"`
	Scratch  map[string]string `json:"scratch"`

	// History holds detected intention ids, most recent first.
	History []string `json:"history"`

	Pending   *PendingChoice `json:"pending,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSession creates an idle session for callerID.
func NewSession(callerID string) *Session {
	return &Session{
		CallerID: callerID,
		State:    Idle,
		Scratch:  map[string]string{},
	}
}

// Reset returns the caller to the main menu and drops any collected data.
func (s *Session) Reset() {
	s.State = Idle
	s.Scratch = map[string]string{}
	s.Pending = nil
}

// PushHistory records id as the most recent intention.
func (s *Session) PushHistory(id string) {
	h := make([]string, 0, MaxHistory)
	h = append(h, id)
	h = append(h, s.History...)
	if len(h) > MaxHistory {
		h = h[:MaxHistory]
	}
	s.History = h
}

// InHistory reports whether id was detected in any recent turn.
func (s *Session) InHistory(id string) bool {
	for _, h := range s.History {
		if h == id {
			return true
		}
	}
	return false
}

// Set stores a scratch field.
func (s *Session) Set(key, value string) {
	if s.Scratch == nil {
		s.Scratch = map[string]string{}
	}
	s.Scratch[key] = value
}

// Value reads a scratch field.
func (s *Session) Value(key string) string {
	return s.Scratch[key]
}

// Clone returns a deep copy so a turn can be computed without touching the stored session.
func (s *Session) Clone() *Session {
	c := *s
	c.Scratch = make(map[string]string, len(s.Scratch))
	for k, v := range s.Scratch {
		c.Scratch[k] = v
	}
	c.History = append([]string(nil), s.History...)
	if s.Pending != nil {
		p := *s.Pending
		p.Candidates = append([]string(nil), s.Pending.Candidates...)
		c.Pending = &p
	}
	return &c
}

// SessionStore keeps sessions keyed by caller id.
type SessionStore interface {
	Get(ctx context.Context, callerID string) (*Session, bool, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, callerID string) error
}
