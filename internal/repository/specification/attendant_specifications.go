package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByIntentionID struct {
	IntentionID string
}

func (s ByIntentionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("intention_id = ?", s.IntentionID)
}

type ByCallerID struct {
	CallerID string
}

func (s ByCallerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("caller_id = ?", s.CallerID)
}

// ByRule filters turns by the router rule that answered them.
type ByRule struct {
	Rule string
}

func (s ByRule) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("rule = ?", s.Rule)
}

type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
