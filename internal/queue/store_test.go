package queue_test

import (
	"context"
	"math"
	"testing"
	"time"

	"arcqueue/internal/models"
	"arcqueue/internal/queue"
	"arcqueue/internal/testsupport"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntries(t *testing.T, store *queue.Store, cabinetID uuid.UUID, names ...string) {
	t.Helper()
	for i, name := range names {
		require.NoError(t, store.Insert(context.Background(), models.QueueEntry{
			CabinetID: cabinetID,
			Name:      name,
			Position:  i + 1,
		}))
	}
}

func names(entries []models.QueueEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func positions(entries []models.QueueEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Position)
	}
	return out
}

func TestStoreListsInPositionOrder(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	cabinetID := uuid.New()
	other := uuid.New()
	require.NoError(t, store.Insert(ctx, models.QueueEntry{CabinetID: cabinetID, Name: "C", Position: 3}))
	require.NoError(t, store.Insert(ctx, models.QueueEntry{CabinetID: cabinetID, Name: "A", Position: 1}))
	require.NoError(t, store.Insert(ctx, models.QueueEntry{CabinetID: cabinetID, Name: "B", Position: 2}))
	seedEntries(t, store, other, "X")

	entries, err := store.ListByCabinet(ctx, cabinetID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names(entries))
	assert.Equal(t, []int{1, 2, 3}, positions(entries))

	top, err := store.ListTopN(ctx, cabinetID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(top))

	top, err = store.ListTopN(ctx, cabinetID, 10)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	_, err = store.ListTopN(ctx, cabinetID, 0)
	assert.ErrorIs(t, err, queue.ErrInvalidArgument)

	empty, err := store.ListByCabinet(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStoreLookups(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	cabinetID := uuid.New()
	seedEntries(t, store, cabinetID, "A", "B")

	exists, err := store.Exists(ctx, cabinetID, "B")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, uuid.New(), "B")
	require.NoError(t, err)
	assert.False(t, exists, "names are scoped to their cabinet")

	position, err := store.PositionOf(ctx, cabinetID, "B")
	require.NoError(t, err)
	assert.Equal(t, 2, position)

	_, err = store.PositionOf(ctx, cabinetID, "Z")
	assert.ErrorIs(t, err, queue.ErrNotFound)

	maxPosition, err := store.MaxPosition(ctx, cabinetID)
	require.NoError(t, err)
	assert.Equal(t, 2, maxPosition)

	maxPosition, err = store.MaxPosition(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, maxPosition)
}

func TestStoreInsertConflicts(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	cabinetID := uuid.New()
	seedEntries(t, store, cabinetID, "A")

	err := store.Insert(ctx, models.QueueEntry{CabinetID: cabinetID, Name: "A", Position: 2})
	assert.ErrorIs(t, err, queue.ErrConflict, "duplicate name")

	err = store.Insert(ctx, models.QueueEntry{CabinetID: cabinetID, Name: "B", Position: 1})
	assert.ErrorIs(t, err, queue.ErrConflict, "occupied position")

	// same name and position in another cabinet is fine
	require.NoError(t, store.Insert(ctx, models.QueueEntry{CabinetID: uuid.New(), Name: "A", Position: 1}))
}

func TestStoreDeletes(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	cabinetID := uuid.New()
	seedEntries(t, store, cabinetID, "A", "B", "C", "D")

	require.NoError(t, store.DeleteOne(ctx, cabinetID, "B"))
	assert.ErrorIs(t, store.DeleteOne(ctx, cabinetID, "B"), queue.ErrNotFound)

	deleted, err := store.DeleteThrough(ctx, cabinetID, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	entries, err := store.ListByCabinet(ctx, cabinetID)
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, names(entries))
}

func TestStoreBoundsBeyondPositionRange(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	cabinetID := uuid.New()
	seedEntries(t, store, cabinetID, "A", "B", "C")

	top, err := store.ListTopN(ctx, cabinetID, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	rows, err := store.ShiftPositions(ctx, cabinetID, queue.Above(math.MaxInt32+1), -1)
	require.NoError(t, err)
	assert.Zero(t, rows)

	deleted, err := store.DeleteThrough(ctx, cabinetID, math.MaxInt32+1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)
}

func TestStoreShiftPositions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		pred      queue.PositionPredicate
		delta     int
		remove    string
		wantNames []string
		wantPos   []int
		wantRows  int64
	}{
		{
			name:      "close gap above",
			pred:      queue.Above(2),
			delta:     -1,
			remove:    "B",
			wantNames: []string{"A", "C", "D", "E"},
			wantPos:   []int{1, 2, 3, 4},
			wantRows:  3,
		},
		{
			name:      "open gap below",
			pred:      queue.Below(3),
			delta:     -1,
			remove:    "A",
			wantNames: []string{"B", "C", "D", "E"},
			wantPos:   []int{1, 3, 4, 5},
			wantRows:  1,
		},
		{
			name:      "single row",
			pred:      queue.At(4),
			delta:     -1,
			remove:    "C",
			wantNames: []string{"A", "B", "D", "E"},
			wantPos:   []int{1, 2, 3, 5},
			wantRows:  1,
		},
		{
			name:      "nothing matches",
			pred:      queue.Above(10),
			delta:     -1,
			remove:    "E",
			wantNames: []string{"A", "B", "C", "D"},
			wantPos:   []int{1, 2, 3, 4},
			wantRows:  0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := testsupport.MustOpenDB(t)
			store := queue.NewStore(db)
			cabinetID := uuid.New()
			seedEntries(t, store, cabinetID, "A", "B", "C", "D", "E")
			// a neighbour cabinet must never move
			seedEntries(t, store, uuid.New(), "A", "B", "C", "D", "E")

			require.NoError(t, store.DeleteOne(ctx, cabinetID, tc.remove))
			rows, err := store.ShiftPositions(ctx, cabinetID, tc.pred, tc.delta)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRows, rows)

			entries, err := store.ListByCabinet(ctx, cabinetID)
			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, names(entries))
			assert.Equal(t, tc.wantPos, positions(entries))
		})
	}
}

// Rows inserted out of position order used to trip the unique index when the
// whole tail was decremented in a single statement.
func TestStoreShiftPositionsIgnoresPhysicalOrder(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	cabinetID := uuid.New()
	for _, e := range []struct {
		name     string
		position int
	}{{"E", 5}, {"C", 3}, {"A", 1}, {"D", 4}, {"B", 2}} {
		require.NoError(t, store.Insert(ctx, models.QueueEntry{CabinetID: cabinetID, Name: e.name, Position: e.position}))
	}

	require.NoError(t, store.DeleteOne(ctx, cabinetID, "A"))
	_, err := store.ShiftPositions(ctx, cabinetID, queue.Above(1), -1)
	require.NoError(t, err)

	entries, err := store.ListByCabinet(ctx, cabinetID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D", "E"}, names(entries))
	assert.Equal(t, []int{1, 2, 3, 4}, positions(entries))
}

func TestStoreShiftPositionsRejectsZeroPredicate(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)

	_, err := store.ShiftPositions(context.Background(), uuid.New(), queue.PositionPredicate{}, -1)
	assert.Error(t, err)
}

func TestStoreQueueRow(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	cabinetID := uuid.New()
	_, err := store.Stats(ctx, cabinetID)
	assert.ErrorIs(t, err, queue.ErrNotFound)

	require.NoError(t, store.LockQueue(ctx, cabinetID))
	require.NoError(t, store.LockQueue(ctx, cabinetID), "locking twice upserts")
	require.NoError(t, store.RecordServed(ctx, cabinetID, 2))
	require.NoError(t, store.RecordServed(ctx, cabinetID, 3))

	q, err := store.Stats(ctx, cabinetID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, q.ServedTotal)
}

func TestFindDensityViolations(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	healthy := uuid.New()
	seedEntries(t, store, healthy, "A", "B", "C")

	gapped := uuid.New()
	seedEntries(t, store, gapped, "A", "B", "C")
	require.NoError(t, store.DeleteOne(ctx, gapped, "B"))

	offset := uuid.New()
	require.NoError(t, store.Insert(ctx, models.QueueEntry{CabinetID: offset, Name: "A", Position: 2}))

	violations, err := store.FindDensityViolations(ctx)
	require.NoError(t, err)

	found := map[uuid.UUID]queue.DensityViolation{}
	for _, v := range violations {
		found[v.CabinetID] = v
	}
	assert.Len(t, found, 2)
	assert.NotContains(t, found, healthy)
	assert.Contains(t, found, gapped)
	assert.Contains(t, found, offset)
	assert.EqualValues(t, 2, found[gapped].Entries)
	assert.Equal(t, 3, found[gapped].MaxPosition)
}

func TestPurgeIdleQueues(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	store := queue.NewStore(db)
	ctx := context.Background()

	idle := uuid.New()
	busy := uuid.New()
	recent := uuid.New()
	for _, id := range []uuid.UUID{idle, busy, recent} {
		require.NoError(t, store.LockQueue(ctx, id))
	}
	seedEntries(t, store, busy, "A")

	old := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&models.Queue{}).
		Where("cabinet_id IN ?", []uuid.UUID{idle, busy}).
		UpdateColumn("updated_at", old).Error)

	purged, err := store.PurgeIdleQueues(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, err = store.Stats(ctx, idle)
	assert.ErrorIs(t, err, queue.ErrNotFound)
	_, err = store.Stats(ctx, busy)
	assert.NoError(t, err, "queues with players are kept")
	_, err = store.Stats(ctx, recent)
	assert.NoError(t, err)
}
