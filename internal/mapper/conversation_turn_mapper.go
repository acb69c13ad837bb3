package mapper

import (
	"time"

	"virtual-attendant-be/internal/entity"
	"virtual-attendant-be/internal/model"
	"virtual-attendant-be/pkg/router"
)

type ConversationTurnMapper struct{}

func NewConversationTurnMapper() *ConversationTurnMapper {
	return &ConversationTurnMapper{}
}

func (m *ConversationTurnMapper) ToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}
	return &entity.ConversationTurn{
		Id:          t.Id,
		CallerId:    t.CallerId,
		Input:       t.Input,
		Normalized:  t.Normalized,
		Rule:        t.Rule,
		IntentionId: t.IntentionId,
		Confidence:  t.Confidence,
		StateBefore: t.StateBefore,
		StateAfter:  t.StateAfter,
		ReplyKind:   t.ReplyKind,
		ReplyBody:   t.ReplyBody,
		Duration:    time.Duration(t.DurationMs) * time.Millisecond,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ConversationTurnMapper) ToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}
	return &model.ConversationTurn{
		Id:          t.Id,
		CallerId:    t.CallerId,
		Input:       t.Input,
		Normalized:  t.Normalized,
		Rule:        t.Rule,
		IntentionId: t.IntentionId,
		Confidence:  t.Confidence,
		StateBefore: t.StateBefore,
		StateAfter:  t.StateAfter,
		ReplyKind:   t.ReplyKind,
		ReplyBody:   t.ReplyBody,
		DurationMs:  t.Duration.Milliseconds(),
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ConversationTurnMapper) ToEntities(list []*model.ConversationTurn) []*entity.ConversationTurn {
	res := make([]*entity.ConversationTurn, 0, len(list))
	for _, t := range list {
		res = append(res, m.ToEntity(t))
	}
	return res
}

// FromTurn builds the persisted record of a routed turn.
func (m *ConversationTurnMapper) FromTurn(t router.Turn) *entity.ConversationTurn {
	return &entity.ConversationTurn{
		CallerId:    t.CallerID,
		Input:       t.Input,
		Normalized:  t.Normalized,
		Rule:        t.Rule,
		IntentionId: t.IntentionID,
		Confidence:  t.Confidence,
		StateBefore: t.Before.String(),
		StateAfter:  t.After.String(),
		ReplyKind:   string(t.Reply.Kind),
		ReplyBody:   t.Reply.Body,
		Duration:    t.Duration,
		CreatedAt:   t.At,
	}
}
