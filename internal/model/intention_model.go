package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Intention is an operator-managed catalog entry layered over the built-in catalog.
type Intention struct {
	Id          uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IntentionId string                                `gorm:"type:varchar(64);not null;uniqueIndex"`
	Label       string                                `gorm:"type:text"`
	Keywords    datatypes.JSONSlice[string]           `gorm:"type:jsonb"`
	Phrases     datatypes.JSONSlice[string]           `gorm:"type:jsonb"`
	Priority    int                                   `gorm:"not null;default:0"`
	Flow        string                                `gorm:"type:varchar(64)"`
	Step        string                                `gorm:"type:varchar(64)"`
	Action      string                                `gorm:"type:varchar(64);not null"`
	Args        datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	CreatedAt   time.Time                             `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                             `gorm:"autoUpdateTime"`
}

func (Intention) TableName() string {
	return "intentions"
}

