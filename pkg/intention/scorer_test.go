package intention

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"virtual-attendant-be/pkg/store"
	"virtual-attendant-be/pkg/text"
)

func testScorer() *Scorer {
	return NewScorer(DefaultWeights(), DefaultTriggers().TopicChange)
}

func normalized(t *testing.T, in Intention) Intention {
	t.Helper()
	return normalizeIntention(in)
}

func TestScoreComponents(t *testing.T) {
	s := testScorer()
	in := normalized(t, sampleIntention("DEBITOS"))

	tests := []struct {
		name    string
		msg     string
		history []string
		state   store.State
		want    int
	}{
		{"no match scores zero", "bom dia", nil, store.Idle, 0},
		{"one keyword plus priority", "meu iptu", nil, store.Idle, 10 + 10},
		{"two keywords", "debito de iptu", nil, store.Idle, 20 + 10},
		{"keyword and phrase", "segunda via do iptu", nil, store.Idle, 10 + 20 + 10},
		{"same context boost", "meu iptu", nil, store.At("DEBITOS", "awaiting_year"), 20 + 5},
		{"topic change boost once", "na verdade quero prefiro iptu", nil, store.Idle, 20 + 2},
		{"history boost", "meu iptu", []string{"OUTRO", "DEBITOS"}, store.Idle, 20 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(text.Normalize(tt.msg), in, tt.history, tt.state)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSameContextBoostForIdleTargets(t *testing.T) {
	s := testScorer()
	in := normalized(t, Intention{
		ID:          "ATENDENTE",
		Keywords:    []string{"atendente"},
		Priority:    5,
		TargetState: store.Idle,
		Action:      "ATENDENTE",
	})

	assert.Equal(t, 10+5+5, s.Score("falar com atendente", in, nil, store.Idle))
	assert.Equal(t, 10+5+5, s.Score("falar com atendente", in, nil, store.State{}), "empty state is idle")
	assert.Equal(t, 10+5, s.Score("falar com atendente", in, nil, store.At("DEBITOS", "awaiting_year")))
}

func TestScoreIsMonotonicInMatches(t *testing.T) {
	s := testScorer()
	in := normalized(t, Intention{
		ID:       "M",
		Keywords: []string{"alfa", "beta", "gama"},
		Phrases:  []string{"alfa beta gama delta"},
		Priority: 3,
		Action:   "X",
	})

	messages := []string{
		"nada aqui",
		"alfa",
		"alfa beta",
		"alfa beta gama",
		"alfa beta gama delta",
	}
	prev := -1
	for _, m := range messages {
		got := s.Score(m, in, nil, store.Idle)
		assert.GreaterOrEqual(t, got, prev, "message %q", m)
		prev = got
	}
}

func TestConfidenceBounds(t *testing.T) {
	s := testScorer()
	in := normalized(t, sampleIntention("DEBITOS"))

	assert.Equal(t, 0.0, s.Confidence(0, in, "qualquer"))
	assert.Equal(t, 40.0, s.Confidence(20, in, "meu iptu"))
	assert.Equal(t, 100.0, s.Confidence(500, in, "meu iptu"))
	assert.Equal(t, 10.0, s.Confidence(10, in, "iptu"), "short messages are halved")
	assert.Equal(t, 78.0, s.Confidence(30, in, "a segunda via do iptu"), "phrase bonus")
	assert.Equal(t, 100.0, s.Confidence(45, in, "a segunda via do iptu"), "bonus is capped")

	for score := 0; score <= 200; score += 7 {
		for _, msg := range []string{"oi", "segunda via do iptu", "debito"} {
			c := s.Confidence(score, in, msg)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 100.0)
		}
	}
}
