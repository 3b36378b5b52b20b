package queue

import (
	"context"
	"strings"
	"time"

	"arcqueue/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultConflictAttempts = 3
	DefaultTxTimeout        = 2 * time.Second

	// transient failures (serialization, deadlock, busy) get one more attempt
	transientRetries = 1

	defaultInitialBackoff = 10 * time.Millisecond
	defaultMaxBackoff     = 200 * time.Millisecond
)

// Engine runs the queue transitions. Each mutating call is one transaction
// holding the cabinet's coordination row, so it either applies fully or not
// at all.
type Engine struct {
	db     *gorm.DB
	store  *Store
	logger *logrus.Logger

	conflictAttempts int
	txTimeout        time.Duration
	initialBackoff   time.Duration
	maxBackoff       time.Duration
}

type Option func(*Engine)

// WithConflictAttempts bounds how many times a transition is attempted when it
// keeps losing unique-index races.
func WithConflictAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.conflictAttempts = n
		}
	}
}

func WithTxTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.txTimeout = d
		}
	}
}

func WithBackoff(initial, max time.Duration) Option {
	return func(e *Engine) {
		e.initialBackoff = initial
		e.maxBackoff = max
	}
}

func NewEngine(db *gorm.DB, logger *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		db:               db,
		store:            NewStore(db),
		logger:           logger,
		conflictAttempts: DefaultConflictAttempts,
		txTimeout:        DefaultTxTimeout,
		initialBackoff:   defaultInitialBackoff,
		maxBackoff:       defaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Join appends name to the tail of the cabinet's queue.
func (e *Engine) Join(ctx context.Context, cabinetID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.Wrap(ErrInvalidArgument, "player name must not be empty")
	}

	return e.transact(ctx, "join", cabinetID, func(ctx context.Context, s *Store) error {
		exists, err := s.Exists(ctx, cabinetID, name)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyQueued
		}

		maxPosition, err := s.MaxPosition(ctx, cabinetID)
		if err != nil {
			return err
		}

		return s.Insert(ctx, models.QueueEntry{
			CabinetID: cabinetID,
			Name:      name,
			Position:  maxPosition + 1,
		})
	})
}

// Leave removes name and closes the gap behind it.
func (e *Engine) Leave(ctx context.Context, cabinetID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)

	return e.transact(ctx, "leave", cabinetID, func(ctx context.Context, s *Store) error {
		position, err := s.PositionOf(ctx, cabinetID, name)
		if errors.Is(err, ErrNotFound) {
			return ErrNotQueued
		}
		if err != nil {
			return err
		}

		if err := s.DeleteOne(ctx, cabinetID, name); err != nil {
			return err
		}

		_, err = s.ShiftPositions(ctx, cabinetID, Above(position), -1)
		return err
	})
}

// Advance serves the first n players: they are removed and returned in their
// original order. Asking for more players than are waiting serves everyone.
func (e *Engine) Advance(ctx context.Context, cabinetID uuid.UUID, n int) ([]models.QueueEntry, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "n needs to be at least 1, got %d", n)
	}
	n = clampPosition(n)

	var served []models.QueueEntry
	err := e.transact(ctx, "advance", cabinetID, func(ctx context.Context, s *Store) error {
		next, err := s.ListTopN(ctx, cabinetID, n)
		if err != nil {
			return err
		}
		served = next
		if len(next) == 0 {
			return nil
		}

		if _, err := s.DeleteThrough(ctx, cabinetID, n); err != nil {
			return err
		}

		if _, err := s.ShiftPositions(ctx, cabinetID, Above(n), -n); err != nil {
			return err
		}

		return s.RecordServed(ctx, cabinetID, len(next))
	})
	if err != nil {
		return nil, err
	}
	return served, nil
}

// Postpone swaps name with the player right behind it.
func (e *Engine) Postpone(ctx context.Context, cabinetID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)

	return e.transact(ctx, "postpone", cabinetID, func(ctx context.Context, s *Store) error {
		entry, err := s.Find(ctx, cabinetID, name)
		if errors.Is(err, ErrNotFound) {
			return ErrNotQueued
		}
		if err != nil {
			return err
		}

		maxPosition, err := s.MaxPosition(ctx, cabinetID)
		if err != nil {
			return err
		}
		if entry.Position >= maxPosition {
			return ErrAlreadyLast
		}

		if err := s.DeleteOne(ctx, cabinetID, name); err != nil {
			return err
		}

		if _, err := s.ShiftPositions(ctx, cabinetID, At(entry.Position+1), -1); err != nil {
			return err
		}

		entry.Position++
		return s.Insert(ctx, entry)
	})
}

// ListQueue returns the cabinet's whole queue. A cabinet without entries and an
// unknown cabinet both yield an empty slice.
func (e *Engine) ListQueue(ctx context.Context, cabinetID uuid.UUID) ([]models.QueueEntry, error) {
	entries, err := e.store.ListByCabinet(ctx, cabinetID)
	if err != nil {
		return nil, internal(err)
	}
	return entries, nil
}

// ListUpcoming returns up to n players from the head of the queue.
func (e *Engine) ListUpcoming(ctx context.Context, cabinetID uuid.UUID, n int) ([]models.QueueEntry, error) {
	entries, err := e.store.ListTopN(ctx, cabinetID, n)
	if errors.Is(err, ErrInvalidArgument) {
		return nil, err
	}
	if err != nil {
		return nil, internal(err)
	}
	return entries, nil
}

type Stats struct {
	CabinetID   uuid.UUID  `json:"cabinet_id"`
	Length      int        `json:"length"`
	ServedTotal int64      `json:"served_total"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// QueueStats summarizes the cabinet's queue. Cabinets that never saw a
// mutating operation report zero served players.
func (e *Engine) QueueStats(ctx context.Context, cabinetID uuid.UUID) (Stats, error) {
	stats := Stats{CabinetID: cabinetID}

	length, err := e.store.MaxPosition(ctx, cabinetID)
	if err != nil {
		return Stats{}, internal(err)
	}
	stats.Length = length

	q, err := e.store.Stats(ctx, cabinetID)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return Stats{}, internal(err)
	default:
		stats.ServedTotal = q.ServedTotal
		stats.UpdatedAt = &q.UpdatedAt
	}
	return stats, nil
}

// transact runs fn in a transaction after taking the cabinet's lock row,
// retrying lost races. Precondition failures are returned as they are;
// everything else that survives the retries is reported as ErrInternal.
func (e *Engine) transact(ctx context.Context, op string, cabinetID uuid.UUID, fn func(ctx context.Context, s *Store) error) error {
	log := e.logger.WithFields(logrus.Fields{"op": op, "cabinet_id": cabinetID})

	var (
		conflicts  int
		transients int
		delay      = e.initialBackoff
	)
	for {
		err := e.attempt(ctx, cabinetID, fn)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrConflict):
			conflicts++
			if conflicts >= e.conflictAttempts {
				log.WithError(err).Warnf("giving up after %d conflicting attempts", conflicts)
				return internal(err)
			}
		case isTransient(err):
			transients++
			if transients > transientRetries {
				log.WithError(err).Warn("transaction failed again after retry")
				return internal(err)
			}
		case isDomain(err):
			return err
		default:
			return internal(err)
		}

		log.WithError(err).Debugf("retrying in %s", delay)
		if err := sleep(ctx, delay); err != nil {
			return internal(errors.Wrap(err, op))
		}
		if next := delay * 2; next <= e.maxBackoff {
			delay = next
		}
	}
}

func (e *Engine) attempt(ctx context.Context, cabinetID uuid.UUID, fn func(ctx context.Context, s *Store) error) error {
	txCtx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	return e.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		s := e.store.WithTx(tx)
		if err := s.LockQueue(txCtx, cabinetID); err != nil {
			return err
		}
		return fn(txCtx, s)
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
