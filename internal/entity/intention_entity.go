package entity

import (
	"time"

	"github.com/google/uuid"
)

type Intention struct {
	Id          uuid.UUID
	IntentionId string
	Label       string
	Keywords    []string
	Phrases     []string
	Priority    int
	Flow        string
	Step        string
	Action      string
	Args        map[string]string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
