package mapper

import (
	"testing"
	"time"

	"virtual-attendant-be/internal/model"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/router"
	"virtual-attendant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestIntentionSurvivesStorage(t *testing.T) {
	m := NewIntentionMapper()
	in := intention.Intention{
		ID:          "CERTIDAO_NEGATIVA",
		Label:       "Certidão negativa",
		Keywords:    []string{"certidao", "negativa"},
		Priority:    5,
		TargetState: store.At("CERTIDAO", "awaiting_inscription"),
		Action:      "CERTIDAO",
		Args:        map[string]string{"certificate_type": "negativa"},
	}

	row := m.ToModel(m.FromDomain(in))
	assert.Equal(t, "CERTIDAO", row.Flow)
	assert.Equal(t, "awaiting_inscription", row.Step)

	got := m.ToDomain(m.ToEntity(row))
	assert.Equal(t, in, got)
}

func TestIntentionMapperNil(t *testing.T) {
	m := NewIntentionMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
	assert.Empty(t, m.ToEntities(nil))
}

func TestFromTurn(t *testing.T) {
	m := NewConversationTurnMapper()
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	turn := router.Turn{
		CallerID:    "5511",
		Input:       "quero ver meus débitos",
		Normalized:  "quero ver meus debitos",
		Rule:        "intention",
		IntentionID: "DEBITOS",
		Confidence:  80,
		Before:      store.Idle,
		After:       store.At("DEBITOS", "awaiting_taxpayer_type"),
		Reply:       reply.Text("Pessoa física ou jurídica?"),
		Duration:    1500 * time.Microsecond,
		At:          at,
	}

	e := m.FromTurn(turn)
	assert.Equal(t, "MENU_PRINCIPAL", e.StateBefore)
	assert.Equal(t, "DEBITOS/awaiting_taxpayer_type", e.StateAfter)
	assert.Equal(t, "text", e.ReplyKind)
	assert.Equal(t, at, e.CreatedAt)

	row := m.ToModel(e)
	assert.Equal(t, int64(1), row.DurationMs)
	assert.Equal(t, time.Millisecond, m.ToEntity(row).Duration)
}

func TestConversationTurnToEntities(t *testing.T) {
	m := NewConversationTurnMapper()
	list := m.ToEntities([]*model.ConversationTurn{{CallerId: "a"}, {CallerId: "b"}})
	assert.Len(t, list, 2)
	assert.Equal(t, "b", list[1].CallerId)
}
