package intention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-attendant-be/pkg/store"
)

func testDetector(t *testing.T) *Detector {
	t.Helper()
	c, err := NewCatalogFrom([]Intention{
		sampleIntention("DEBITOS"),
		{
			ID:          "CERTIDAO",
			Keywords:    []string{"certidao", "negativa"},
			Phrases:     []string{"certidao negativa de debitos"},
			Priority:    10,
			TargetState: store.State{Flow: "CERTIDAO"},
			Action:      StartFlow("CERTIDAO"),
		},
	})
	require.NoError(t, err)
	return NewDetector(c, DefaultWeights(), DefaultTriggers())
}

func TestDetectEvaluatesEveryIntention(t *testing.T) {
	d := testDetector(t)
	det := d.Detect("Quero a certidão negativa de débitos", store.NewSession("c"))

	require.Len(t, det.Scored, 2)
	top, ok := det.Top()
	require.True(t, ok)
	assert.Equal(t, "CERTIDAO", top.IntentionID)
	assert.Equal(t, top.Confidence, det.TopConfidence)
	assert.True(t, det.Signal.IsChangingTopic)

	// "debito" is a keyword of DEBITOS, so both are in play.
	assert.Greater(t, det.Scored[1].Score, 0)
}

func TestDetectGreetingStaysLow(t *testing.T) {
	d := testDetector(t)
	det := d.Detect("oi", nil)

	assert.Less(t, det.TopConfidence, 30.0)
	assert.Empty(t, det.Above(30))
}
