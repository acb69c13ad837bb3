package intention

import (
	"sort"

	"virtual-attendant-be/pkg/store"
	"virtual-attendant-be/pkg/text"
)

// Detector runs the scorer over the whole catalog plus the context analyzer.
type Detector struct {
	catalog  *Catalog
	scorer   *Scorer
	analyzer *Analyzer
}

func NewDetector(catalog *Catalog, weights Weights, triggers Triggers) *Detector {
	analyzer := NewAnalyzer(triggers)
	return &Detector{
		catalog:  catalog,
		scorer:   NewScorer(weights, analyzer.TopicTriggers()),
		analyzer: analyzer,
	}
}

func (d *Detector) Catalog() *Catalog {
	return d.catalog
}

// Detect classifies message for the session. Every intention is evaluated,
// results are ordered by score, then confidence, then priority.
func (d *Detector) Detect(message string, sess *store.Session) Detection {
	normalized := text.Normalize(message)

	var history []string
	current := store.Idle
	if sess != nil {
		history = sess.History
		current = sess.State
	}

	all := d.catalog.All()
	priority := make(map[string]int, len(all))
	scored := make([]Scored, 0, len(all))
	top := 0.0

	for _, in := range all {
		score := d.scorer.Score(normalized, in, history, current)
		conf := d.scorer.Confidence(score, in, normalized)
		scored = append(scored, Scored{IntentionID: in.ID, Score: score, Confidence: conf})
		priority[in.ID] = in.Priority
		if conf > top {
			top = conf
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if priority[a.IntentionID] != priority[b.IntentionID] {
			return priority[a.IntentionID] > priority[b.IntentionID]
		}
		return a.IntentionID < b.IntentionID
	})

	return Detection{
		Normalized:    normalized,
		Scored:        scored,
		TopConfidence: top,
		Signal:        d.analyzer.Analyze(normalized),
	}
}
