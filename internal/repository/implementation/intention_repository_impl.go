package implementation

import (
	"context"
	"errors"

	"virtual-attendant-be/internal/entity"
	"virtual-attendant-be/internal/mapper"
	"virtual-attendant-be/internal/model"
	"virtual-attendant-be/internal/repository/contract"
	"virtual-attendant-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IntentionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IntentionMapper
}

func NewIntentionRepository(db *gorm.DB) contract.IntentionRepository {
	return &IntentionRepositoryImpl{
		db:     db,
		mapper: mapper.NewIntentionMapper(),
	}
}

func (r *IntentionRepositoryImpl) Upsert(ctx context.Context, intention *entity.Intention) error {
	m := r.mapper.ToModel(intention)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "intention_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "keywords", "phrases", "priority", "flow", "step", "action", "args", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*intention = *r.mapper.ToEntity(m)
	return nil
}

func (r *IntentionRepositoryImpl) DeleteByIntentionId(ctx context.Context, intentionId string) error {
	query := specification.ByIntentionID{IntentionID: intentionId}.Apply(r.db.WithContext(ctx))
	return query.Delete(&model.Intention{}).Error
}

func (r *IntentionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Intention, error) {
	var m model.Intention
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IntentionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Intention, error) {
	var models []*model.Intention
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
