package queue

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: ErrNotFound},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: ErrConflict},
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, want: ErrConflict},
		{name: "sqlite unique violation", err: errors.New("constraint failed: UNIQUE constraint failed: queue_entries.cabinet_id, queue_entries.position (2067)"), want: ErrConflict},
		{name: "gorm foreign key", err: gorm.ErrForeignKeyViolated, want: ErrNotFound},
		{name: "postgres foreign key", err: &pgconn.PgError{Code: "23503"}, want: ErrNotFound},
		{name: "sqlite foreign key", err: errors.New("FOREIGN KEY constraint failed"), want: ErrNotFound},
		{name: "already classified", err: errors.Wrap(ErrAlreadyQueued, "join"), want: ErrAlreadyQueued},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.err, "op")
			assert.ErrorIs(t, got, tc.want)
		})
	}

	assert.Nil(t, classify(nil, "op"))

	plain := errors.New("connection reset")
	got := classify(plain, "op")
	assert.ErrorIs(t, got, plain)
	assert.False(t, isDomain(got))
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{errors.Wrap(ErrInvalidArgument, "n"), KindInvalidArgument},
		{ErrAlreadyQueued, KindAlreadyQueued},
		{fmt.Errorf("leave: %w", ErrNotQueued), KindNotQueued},
		{ErrAlreadyLast, KindAlreadyLast},
		{ErrConflict, KindConflict},
		{ErrNotFound, KindNotFound},
		{internal(ErrConflict), KindInternal},
		{internal(errors.New("boom")), KindInternal},
		{errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), tc.err.Error())
	}
}

func TestInternalError(t *testing.T) {
	cause := &pgconn.PgError{Code: "40P01"}
	err := internal(cause)

	assert.ErrorIs(t, err, ErrInternal)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Contains(t, err.Error(), ErrInternal.Error())

	assert.Same(t, err, internal(err), "internal errors are not wrapped twice")
	assert.Nil(t, internal(nil))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isTransient(errors.Wrap(&pgconn.PgError{Code: "40P01"}, "shift")))
	assert.True(t, isTransient(errors.New("database is locked (5) (SQLITE_BUSY)")))

	assert.False(t, isTransient(nil))
	assert.False(t, isTransient(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isTransient(context.Canceled))
	assert.False(t, isTransient(errors.Wrap(context.DeadlineExceeded, "SQLITE_BUSY")))
}
