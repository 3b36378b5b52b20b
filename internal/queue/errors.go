package queue

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyQueued   = errors.New("player name already in queue")
	ErrNotQueued       = errors.New("player name not in queue")
	ErrAlreadyLast     = errors.New("player is already the last one in the queue")
	ErrConflict        = errors.New("queue position conflict")
	ErrNotFound        = errors.New("record not found")
	ErrInternal        = errors.New("an unspecified internal error occurred")
)

// Kind codes, stable across releases; the HTTP layer exposes them verbatim.
const (
	KindInvalidArgument = "INVALID_ARGUMENT"
	KindAlreadyQueued   = "ALREADY_QUEUED"
	KindNotQueued       = "NOT_QUEUED"
	KindAlreadyLast     = "ALREADY_LAST"
	KindConflict        = "CONFLICT"
	KindNotFound        = "NOT_FOUND"
	KindInternal        = "INTERNAL"
)

// KindOf reports the taxonomy code of err. Unknown errors are internal.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrAlreadyQueued):
		return KindAlreadyQueued
	case errors.Is(err, ErrNotQueued):
		return KindNotQueued
	case errors.Is(err, ErrAlreadyLast):
		return KindAlreadyLast
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// internalError keeps the underlying cause reachable through errors.Is/As
// while still matching ErrInternal.
type internalError struct {
	cause error
}

func (e *internalError) Error() string {
	return ErrInternal.Error() + ": " + e.cause.Error()
}

func (e *internalError) Unwrap() error { return e.cause }

func (e *internalError) Is(target error) bool { return target == ErrInternal }

func internal(err error) error {
	if err == nil || errors.Is(err, ErrInternal) {
		return err
	}
	return &internalError{cause: err}
}

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// classify maps a storage error onto the taxonomy. Errors that already belong
// to it are returned unchanged.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	if isDomain(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, msg)
	}
	if isUniqueViolation(err) {
		return errors.Wrapf(ErrConflict, "%s: %v", msg, err)
	}
	if isForeignKeyViolation(err) {
		return errors.Wrapf(ErrNotFound, "%s: cabinet does not exist", msg)
	}
	return errors.Wrap(err, msg)
}

func isDomain(err error) bool {
	for _, target := range []error{
		ErrInvalidArgument, ErrAlreadyQueued, ErrNotQueued, ErrAlreadyLast,
		ErrConflict, ErrNotFound, ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isTransient reports serialization failures, deadlocks and SQLite lock
// contention: the transaction lost a race and may succeed when run again.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch pgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
