package models

import (
	"time"

	"github.com/google/uuid"
)

// QueueEntry is one waiting player. Rows are hard-deleted on Leave and Advance:
// a soft-deleted row would keep occupying its position in the unique index.
type QueueEntry struct {
	CabinetID uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_queue_entries_cabinet_position,priority:1" json:"assoc_cabinet"`
	Name      string    `gorm:"primaryKey" json:"name"`
	Position  int       `gorm:"not null;uniqueIndex:idx_queue_entries_cabinet_position,priority:2" json:"position"` // 1-based, dense per cabinet
	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`
}
