// Package intention classifies caller messages against a catalog of
// keyword/phrase weighted intentions.
package intention

import (
	"errors"

	"virtual-attendant-be/pkg/store"
)

var (
	ErrInvalidIntention   = errors.New("invalid intention")
	ErrDuplicateIntention = errors.New("intention already exists")
	ErrIntentionNotFound  = errors.New("intention not found")
)

// Action names the handler the router invokes when an intention is adopted.
type Action string

// StartFlow is the action that starts the flow identified by id.
func StartFlow(id store.FlowID) Action {
	return Action("START_" + string(id))
}

// Intention is a catalog entry.
type Intention struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
	Phrases  []string `json:"phrases"`
	Priority int      `json:"priority"`

	// TargetState is where the session goes when the intention is adopted.
	TargetState store.State `json:"target_state"`
	Action      Action      `json:"action"`

	// Args are handed to the action, e.g. a preselected certificate type.
	Args map[string]string `json:"args,omitempty"`

	// Label is the caller-facing name used in disambiguation lists.
	Label string `json:"label"`
}

// Scored is the per-turn result for one intention.
type Scored struct {
	IntentionID string  `json:"intention_id"`
	Score       int     `json:"score"`
	Confidence  float64 `json:"confidence"`
}

// SuggestedAction is a hint the context analyzer attaches to a message.
type SuggestedAction string

const (
	SuggestNone         SuggestedAction = ""
	SuggestReturnToMenu SuggestedAction = "RETURN_TO_MENU"
)

// Signal captures intent-independent cues in a message.
type Signal struct {
	IsChangingTopic bool            `json:"is_changing_topic"`
	IsCanceling     bool            `json:"is_canceling"`
	IsConfirming    bool            `json:"is_confirming"`
	SuggestedAction SuggestedAction `json:"suggested_action,omitempty"`
}

// Detection is the outcome of classifying one message.
type Detection struct {
	Normalized    string   `json:"normalized"`
	Scored        []Scored `json:"scored"`
	TopConfidence float64  `json:"top_confidence"`
	Signal        Signal   `json:"signal"`
}

// Top returns the best scored intention, if any intention was evaluated.
func (d Detection) Top() (Scored, bool) {
	if len(d.Scored) == 0 {
		return Scored{}, false
	}
	return d.Scored[0], true
}

// Above returns the scored intentions whose confidence is at least min, best first.
func (d Detection) Above(min float64) []Scored {
	var out []Scored
	for _, s := range d.Scored {
		if s.Confidence >= min {
			out = append(out, s)
		}
	}
	return out
}
