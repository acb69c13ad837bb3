package intention

import (
	"math"
	"strings"
	"unicode/utf8"

	"virtual-attendant-be/pkg/store"
)

// Weights tunes the scorer.
type Weights struct {
	Keyword      int
	Phrase       int
	SameContext  int
	TopicChange  int
	History      int
	ShortMessage int // messages shorter than this many runes get half confidence
}

// DefaultWeights are the reference values.
func DefaultWeights() Weights {
	return Weights{
		Keyword:      10,
		Phrase:       20,
		SameContext:  5,
		TopicChange:  2,
		History:      3,
		ShortMessage: 5,
	}
}

const phraseBonus = 1.3

// Scorer computes keyword/phrase scores. It is stateless and safe for concurrent use.
type Scorer struct {
	weights       Weights
	topicTriggers []string
}

func NewScorer(weights Weights, topicTriggers []string) *Scorer {
	return &Scorer{weights: weights, topicTriggers: normalizeAll(topicTriggers)}
}

// Score rates how well normalized matches in. An intention the message never
// mentions (no keyword nor phrase hit) scores zero: the priority and the
// context boosts only rank intentions that are actually in play.
func (s *Scorer) Score(normalized string, in Intention, history []string, current store.State) int {
	if normalized == "" {
		return 0
	}

	matched := false
	score := 0
	for _, kw := range in.Keywords {
		if kw != "" && strings.Contains(normalized, kw) {
			score += s.weights.Keyword
			matched = true
		}
	}
	for _, ph := range in.Phrases {
		if ph != "" && strings.Contains(normalized, ph) {
			score += s.weights.Phrase
			matched = true
		}
	}
	if !matched {
		return 0
	}

	score += in.Priority

	if current.Canonical() == in.TargetState.Canonical() ||
		(!current.IsIdle() && current.Flow == in.TargetState.Flow) {
		score += s.weights.SameContext
	}
	for _, trigger := range s.topicTriggers {
		if strings.Contains(normalized, trigger) {
			score += s.weights.TopicChange
			break
		}
	}
	for _, id := range history {
		if id == in.ID {
			score += s.weights.History
			break
		}
	}
	return score
}

// Confidence maps score to [0,100].
func (s *Scorer) Confidence(score int, in Intention, normalized string) float64 {
	if score <= 0 {
		return 0
	}
	c := math.Min(float64(score)*2, 100)

	if utf8.RuneCountInString(normalized) < s.weights.ShortMessage {
		c /= 2
	}
	if PhraseMatched(normalized, in) {
		c = math.Min(c*phraseBonus, 100)
	}
	return math.Round(c*100) / 100
}

// PhraseMatched reports whether any phrase of in occurs in normalized.
func PhraseMatched(normalized string, in Intention) bool {
	for _, ph := range in.Phrases {
		if ph != "" && strings.Contains(normalized, ph) {
			return true
		}
	}
	return false
}
