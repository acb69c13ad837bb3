package intention

import "virtual-attendant-be/pkg/text"

// Triggers configures the context analyzer.
type Triggers struct {
	TopicChange []string
	Cancel      []string
	Confirm     []string
}

// DefaultTriggers returns the Portuguese trigger sets used in production.
func DefaultTriggers() Triggers {
	return Triggers{
		TopicChange: []string{"quero", "prefiro", "na verdade", "mudei de ideia", "outra coisa", "ao inves"},
		Cancel:      []string{"não", "cancelar", "cancela", "voltar", "sair", "menu", "parar"},
		Confirm:     []string{"sim", "ok", "confirmo", "continuar", "isso", "pode ser", "claro"},
	}
}

// Analyzer detects cancel/confirm/change-topic cues independent of any intention.
type Analyzer struct {
	topic, cancel, confirm []string
}

func NewAnalyzer(t Triggers) *Analyzer {
	return &Analyzer{
		topic:   normalizeAll(t.TopicChange),
		cancel:  normalizeAll(t.Cancel),
		confirm: normalizeAll(t.Confirm),
	}
}

// TopicTriggers exposes the normalized topic-change set for the scorer.
func (a *Analyzer) TopicTriggers() []string {
	return append([]string(nil), a.topic...)
}

// Analyze scans normalized for every cue. The checks are independent.
func (a *Analyzer) Analyze(normalized string) Signal {
	sig := Signal{
		IsChangingTopic: containsAnyWord(normalized, a.topic),
		IsCanceling:     containsAnyWord(normalized, a.cancel),
		IsConfirming:    containsAnyWord(normalized, a.confirm),
	}
	if sig.IsCanceling {
		sig.SuggestedAction = SuggestReturnToMenu
	}
	return sig
}

func containsAnyWord(normalized string, words []string) bool {
	for _, w := range words {
		if text.ContainsWord(normalized, w) {
			return true
		}
	}
	return false
}
