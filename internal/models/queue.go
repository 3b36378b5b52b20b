package models

import (
	"time"

	"github.com/google/uuid"
)

// Queue is the per-cabinet coordination row. Mutating queue operations upsert
// it first so that writers of the same cabinet hold its row lock in turn.
type Queue struct {
	CabinetID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"cabinet_id"`
	ServedTotal int64     `gorm:"not null;default:0" json:"served_total"` // players removed by Advance
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"` // last mutating operation
}
