package mapper

import (
	"time"

	"virtual-attendant-be/internal/entity"
	"virtual-attendant-be/internal/model"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/store"

	"gorm.io/datatypes"
)

type IntentionMapper struct{}

func NewIntentionMapper() *IntentionMapper {
	return &IntentionMapper{}
}

func (m *IntentionMapper) ToEntity(i *model.Intention) *entity.Intention {
	if i == nil {
		return nil
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.Intention{
		Id:          i.Id,
		IntentionId: i.IntentionId,
		Label:       i.Label,
		Keywords:    []string(i.Keywords),
		Phrases:     []string(i.Phrases),
		Priority:    i.Priority,
		Flow:        i.Flow,
		Step:        i.Step,
		Action:      i.Action,
		Args:        i.Args.Data(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *IntentionMapper) ToModel(i *entity.Intention) *model.Intention {
	if i == nil {
		return nil
	}

	res := &model.Intention{
		Id:          i.Id,
		IntentionId: i.IntentionId,
		Label:       i.Label,
		Keywords:    datatypes.JSONSlice[string](i.Keywords),
		Phrases:     datatypes.JSONSlice[string](i.Phrases),
		Priority:    i.Priority,
		Flow:        i.Flow,
		Step:        i.Step,
		Action:      i.Action,
		Args:        datatypes.NewJSONType(i.Args),
		CreatedAt:   i.CreatedAt,
	}
	if i.UpdatedAt != nil {
		res.UpdatedAt = *i.UpdatedAt
	}
	return res
}

func (m *IntentionMapper) ToEntities(list []*model.Intention) []*entity.Intention {
	res := make([]*entity.Intention, 0, len(list))
	for _, i := range list {
		res = append(res, m.ToEntity(i))
	}
	return res
}

// ToDomain converts a stored entry into a catalog intention.
func (m *IntentionMapper) ToDomain(i *entity.Intention) intention.Intention {
	return intention.Intention{
		ID:          i.IntentionId,
		Label:       i.Label,
		Keywords:    i.Keywords,
		Phrases:     i.Phrases,
		Priority:    i.Priority,
		TargetState: store.At(store.FlowID(i.Flow), store.Step(i.Step)),
		Action:      intention.Action(i.Action),
		Args:        i.Args,
	}
}

func (m *IntentionMapper) FromDomain(in intention.Intention) *entity.Intention {
	return &entity.Intention{
		IntentionId: in.ID,
		Label:       in.Label,
		Keywords:    in.Keywords,
		Phrases:     in.Phrases,
		Priority:    in.Priority,
		Flow:        string(in.TargetState.Flow),
		Step:        string(in.TargetState.Step),
		Action:      string(in.Action),
		Args:        in.Args,
	}
}
