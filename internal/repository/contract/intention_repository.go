package contract

import (
	"context"

	"virtual-attendant-be/internal/entity"
	"virtual-attendant-be/internal/repository/specification"
)

type IntentionRepository interface {
	// Upsert inserts or replaces the entry keyed by IntentionId.
	Upsert(ctx context.Context, intention *entity.Intention) error
	DeleteByIntentionId(ctx context.Context, intentionId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Intention, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Intention, error)
}
