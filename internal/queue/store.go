package queue

import (
	"context"
	"fmt"
	"math"
	"time"

	"arcqueue/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store reads and rewrites queue_entries rows. It performs single statements
// only; the Engine composes them into transactions.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a Store bound to tx.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

func (s *Store) entries(ctx context.Context, cabinetID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.QueueEntry{}).Where("cabinet_id = ?", cabinetID)
}

// ListByCabinet returns the whole queue of a cabinet in serving order.
func (s *Store) ListByCabinet(ctx context.Context, cabinetID uuid.UUID) ([]models.QueueEntry, error) {
	entries := make([]models.QueueEntry, 0)
	if err := s.entries(ctx, cabinetID).Order("position ASC").Find(&entries).Error; err != nil {
		return nil, classify(err, "list queue")
	}
	return entries, nil
}

// ListTopN returns up to n entries from the head of the queue.
func (s *Store) ListTopN(ctx context.Context, cabinetID uuid.UUID, n int) ([]models.QueueEntry, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "n needs to be at least 1, got %d", n)
	}
	n = clampPosition(n)
	entries := make([]models.QueueEntry, 0, min(n, 64))
	if err := s.entries(ctx, cabinetID).Order("position ASC").Limit(n).Find(&entries).Error; err != nil {
		return nil, classify(err, "list upcoming")
	}
	return entries, nil
}

func (s *Store) Exists(ctx context.Context, cabinetID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := s.entries(ctx, cabinetID).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, classify(err, "check queue membership")
	}
	return count > 0, nil
}

// Find loads a single entry; ErrNotFound when the name is not queued.
func (s *Store) Find(ctx context.Context, cabinetID uuid.UUID, name string) (models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := s.entries(ctx, cabinetID).Where("name = ?", name).Take(&entry).Error; err != nil {
		return models.QueueEntry{}, classify(err, "find queue entry")
	}
	return entry, nil
}

func (s *Store) PositionOf(ctx context.Context, cabinetID uuid.UUID, name string) (int, error) {
	entry, err := s.Find(ctx, cabinetID, name)
	if err != nil {
		return 0, err
	}
	return entry.Position, nil
}

// MaxPosition returns the tail position, 0 for an empty queue.
func (s *Store) MaxPosition(ctx context.Context, cabinetID uuid.UUID) (int, error) {
	var maxPosition int
	row := s.entries(ctx, cabinetID).Select("COALESCE(MAX(position), 0)").Row()
	if err := row.Scan(&maxPosition); err != nil {
		return 0, classify(err, "read max position")
	}
	return maxPosition, nil
}

// Insert adds entry as is. A taken name or position yields ErrConflict.
func (s *Store) Insert(ctx context.Context, entry models.QueueEntry) error {
	if entry.JoinedAt.IsZero() {
		entry.JoinedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return classify(err, "insert queue entry")
	}
	return nil
}

func (s *Store) DeleteOne(ctx context.Context, cabinetID uuid.UUID, name string) error {
	res := s.db.WithContext(ctx).
		Where("cabinet_id = ? AND name = ?", cabinetID, name).
		Delete(&models.QueueEntry{})
	if res.Error != nil {
		return classify(res.Error, "delete queue entry")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "delete queue entry %q", name)
	}
	return nil
}

// DeleteThrough removes every entry at position n or lower.
func (s *Store) DeleteThrough(ctx context.Context, cabinetID uuid.UUID, n int) (int64, error) {
	n = clampPosition(n)
	res := s.db.WithContext(ctx).
		Where("cabinet_id = ? AND position <= ?", cabinetID, n).
		Delete(&models.QueueEntry{})
	if res.Error != nil {
		return 0, classify(res.Error, "delete served entries")
	}
	return res.RowsAffected, nil
}

// positionLimit is the largest value the integer position column holds.
// Postgres refuses to bind a larger parameter against it.
const positionLimit = math.MaxInt32

// clampPosition caps a position bound at positionLimit. No queue can be
// longer, so the clamped bound selects the same rows.
func clampPosition(n int) int {
	return min(n, positionLimit)
}

// PositionPredicate selects rows of one cabinet by position.
type PositionPredicate struct {
	op    string
	value int
}

func Above(k int) PositionPredicate { return PositionPredicate{op: ">", value: clampPosition(k)} }
func Below(k int) PositionPredicate { return PositionPredicate{op: "<", value: k} }
func At(k int) PositionPredicate    { return PositionPredicate{op: "=", value: k} }

func (p PositionPredicate) String() string {
	return fmt.Sprintf("position %s %d", p.op, p.value)
}

// ShiftPositions adds delta to the position of every matching row.
//
// The shift is two set-oriented updates: the matching rows are first parked at
// distinct negative positions, then flipped back. A single UPDATE would let
// the unique (cabinet_id, position) index see a transient duplicate on engines
// that check it row by row.
func (s *Store) ShiftPositions(ctx context.Context, cabinetID uuid.UUID, pred PositionPredicate, delta int) (int64, error) {
	if pred.op == "" {
		return 0, errors.New("shift positions: empty predicate")
	}
	if delta == 0 {
		return 0, nil
	}
	res := s.entries(ctx, cabinetID).
		Where("position "+pred.op+" ?", pred.value).
		Update("position", gorm.Expr("-(position + ?)", delta))
	if res.Error != nil {
		return 0, classify(res.Error, "park shifted positions")
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	if err := s.entries(ctx, cabinetID).
		Where("position < 0").
		Update("position", gorm.Expr("-position")).Error; err != nil {
		return 0, classify(err, "restore shifted positions")
	}
	return res.RowsAffected, nil
}

// LockQueue upserts the cabinet's coordination row. The row lock is held until
// the surrounding transaction ends.
func (s *Store) LockQueue(ctx context.Context, cabinetID uuid.UUID) error {
	now := time.Now().UTC()
	q := models.Queue{CabinetID: cabinetID, CreatedAt: now, UpdatedAt: now}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cabinet_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).
		Create(&q).Error
	if err != nil {
		return classify(err, "lock queue")
	}
	return nil
}

func (s *Store) RecordServed(ctx context.Context, cabinetID uuid.UUID, count int) error {
	if count == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&models.Queue{}).
		Where("cabinet_id = ?", cabinetID).
		Update("served_total", gorm.Expr("served_total + ?", count)).Error
	if err != nil {
		return classify(err, "record served players")
	}
	return nil
}

// Stats returns the coordination row; ErrNotFound if the cabinet never had a
// mutating operation.
func (s *Store) Stats(ctx context.Context, cabinetID uuid.UUID) (models.Queue, error) {
	var q models.Queue
	if err := s.db.WithContext(ctx).Where("cabinet_id = ?", cabinetID).Take(&q).Error; err != nil {
		return models.Queue{}, classify(err, "load queue stats")
	}
	return q, nil
}
