package queue

import (
	"context"
	"time"

	"arcqueue/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DensityViolation describes a cabinet whose positions are not exactly 1..k.
type DensityViolation struct {
	CabinetID        uuid.UUID `gorm:"column:cabinet_id"`
	Entries          int64     `gorm:"column:entries"`
	DistinctPosition int64     `gorm:"column:distinct_positions"`
	MinPosition      int       `gorm:"column:min_position"`
	MaxPosition      int       `gorm:"column:max_position"`
}

// FindDensityViolations scans every cabinet's queue.
func (s *Store) FindDensityViolations(ctx context.Context) ([]DensityViolation, error) {
	var violations []DensityViolation
	err := s.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Select("cabinet_id, COUNT(*) AS entries, COUNT(DISTINCT position) AS distinct_positions, " +
			"MIN(position) AS min_position, MAX(position) AS max_position").
		Group("cabinet_id").
		Having("MIN(position) <> 1 OR MAX(position) <> COUNT(*) OR COUNT(DISTINCT position) <> COUNT(*)").
		Scan(&violations).Error
	if err != nil {
		return nil, errors.Wrap(err, "scan queue density")
	}
	return violations, nil
}

// PurgeIdleQueues deletes coordination rows of empty queues that were last
// touched before olderThan. The next mutating operation recreates the row.
func (s *Store) PurgeIdleQueues(ctx context.Context, olderThan time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("updated_at < ?", olderThan).
		Where("NOT EXISTS (SELECT 1 FROM queue_entries e WHERE e.cabinet_id = queues.cabinet_id)").
		Delete(&models.Queue{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "purge idle queues")
	}
	return res.RowsAffected, nil
}
