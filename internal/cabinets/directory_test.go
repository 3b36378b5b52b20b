package cabinets_test

import (
	"context"
	"testing"
	"time"

	"arcqueue/internal/cabinets"
	"arcqueue/internal/models"
	"arcqueue/internal/testsupport"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestDirectoryGet(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	cabinet := testsupport.SeedCabinet(t, db, "Sound Voltex")
	directory := cabinets.NewDirectory(db, nil, time.Minute, testsupport.NewLogger())
	ctx := context.Background()

	got, err := directory.Get(ctx, cabinet.ID)
	require.NoError(t, err)
	assert.Equal(t, cabinet, got)

	_, err = directory.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, cabinets.ErrCabinetNotFound)

	game, err := directory.Game(ctx, cabinet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sound Voltex", game.Name)
}

func TestDirectoryGameMissing(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	cabinet := testsupport.SeedCabinet(t, db, "DDR A3")
	require.NoError(t, db.Where("name = ?", "DDR A3").Delete(&models.Game{}).Error)
	directory := cabinets.NewDirectory(db, nil, time.Minute, testsupport.NewLogger())

	_, err := directory.Game(context.Background(), cabinet.ID)
	assert.ErrorIs(t, err, cabinets.ErrCabinetNotFound)
}

func TestDirectoryCachesLookups(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	cabinet := testsupport.SeedCabinet(t, db, "CHUNITHM")
	mr, client := newRedis(t)
	directory := cabinets.NewDirectory(db, client, time.Minute, testsupport.NewLogger())
	ctx := context.Background()

	_, err := directory.Get(ctx, cabinet.ID)
	require.NoError(t, err)

	key := "arcqueue:cabinet:" + cabinet.ID.String()
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	// the cached copy answers even after the row is gone
	require.NoError(t, db.Delete(&models.Cabinet{}, "id = ?", cabinet.ID).Error)
	got, err := directory.Get(ctx, cabinet.ID)
	require.NoError(t, err)
	assert.Equal(t, cabinet.ID, got.ID)
	assert.Equal(t, cabinet.Name, got.Name)

	mr.Del(key)
	_, err = directory.Get(ctx, cabinet.ID)
	assert.ErrorIs(t, err, cabinets.ErrCabinetNotFound)
}

func TestDirectoryCacheExpires(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	cabinet := testsupport.SeedCabinet(t, db, "IIDX")
	mr, client := newRedis(t)
	directory := cabinets.NewDirectory(db, client, time.Minute, testsupport.NewLogger())
	ctx := context.Background()

	_, err := directory.Get(ctx, cabinet.ID)
	require.NoError(t, err)

	key := "arcqueue:cabinet:" + cabinet.ID.String()
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(key))
}

func TestDirectoryIgnoresBrokenCache(t *testing.T) {
	db := testsupport.MustOpenDB(t)
	cabinet := testsupport.SeedCabinet(t, db, "pop'n music")
	mr, client := newRedis(t)
	directory := cabinets.NewDirectory(db, client, time.Minute, testsupport.NewLogger())
	ctx := context.Background()

	require.NoError(t, mr.Set("arcqueue:cabinet:"+cabinet.ID.String(), "{not json"))
	got, err := directory.Get(ctx, cabinet.ID)
	require.NoError(t, err)
	assert.Equal(t, cabinet.ID, got.ID)

	mr.Close()
	got, err = directory.Get(ctx, cabinet.ID)
	require.NoError(t, err, "an unreachable cache falls back to the database")
	assert.Equal(t, cabinet.ID, got.ID)
}
