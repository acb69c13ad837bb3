package router

import (
	"time"

	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/intention"
)

// Options tunes the intention thresholds and the static tables the router consults.
type Options struct {
	// MinConfidence must be exceeded before any intention is acted on.
	MinConfidence float64

	// AmbiguityFloor is the bar two intentions must clear to be offered side by side.
	AmbiguityFloor float64

	// SingleIntent is the confidence at which the top intention is adopted
	// directly, as long as the runner-up trails by at least CloseMargin.
	SingleIntent float64
	CloseMargin  float64

	MaxCandidates int

	Weights  intention.Weights
	Triggers intention.Triggers

	// GlobalCommands reset any conversation when they are the whole message.
	GlobalCommands []string
	Menu           []catalog.MenuOption

	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		MinConfidence:  30,
		AmbiguityFloor: 50,
		SingleIntent:   70,
		CloseMargin:    20,
		MaxCandidates:  3,
		Weights:        intention.DefaultWeights(),
		Triggers:       intention.DefaultTriggers(),
		GlobalCommands: []string{"menu", "inicio", "comecar", "voltar ao menu"},
		Menu:           catalog.MenuOptions,
		Now:            time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinConfidence <= 0 {
		o.MinConfidence = d.MinConfidence
	}
	if o.AmbiguityFloor <= 0 {
		o.AmbiguityFloor = d.AmbiguityFloor
	}
	if o.SingleIntent <= 0 {
		o.SingleIntent = d.SingleIntent
	}
	if o.CloseMargin <= 0 {
		o.CloseMargin = d.CloseMargin
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = d.MaxCandidates
	}
	if o.Weights == (intention.Weights{}) {
		o.Weights = d.Weights
	}
	if len(o.Triggers.Cancel) == 0 && len(o.Triggers.Confirm) == 0 && len(o.Triggers.TopicChange) == 0 {
		o.Triggers = d.Triggers
	}
	if len(o.GlobalCommands) == 0 {
		o.GlobalCommands = d.GlobalCommands
	}
	if o.Menu == nil {
		o.Menu = d.Menu
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
