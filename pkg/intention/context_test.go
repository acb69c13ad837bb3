package intention

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"virtual-attendant-be/pkg/text"
)

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(DefaultTriggers())

	tests := []struct {
		msg  string
		want Signal
	}{
		{"bom dia", Signal{}},
		{"Não, obrigado", Signal{IsCanceling: true, SuggestedAction: SuggestReturnToMenu}},
		{"sim", Signal{IsConfirming: true}},
		{"simples nacional", Signal{}},
		{"na verdade quero agendar", Signal{IsChangingTopic: true}},
		{"mudei de ideia, pode cancelar", Signal{IsChangingTopic: true, IsCanceling: true, SuggestedAction: SuggestReturnToMenu}},
		{"ok, pode voltar", Signal{IsCanceling: true, IsConfirming: true, SuggestedAction: SuggestReturnToMenu}},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze(text.Normalize(tt.msg)))
		})
	}
}
