package cabinets

import (
	"context"
	"encoding/json"
	"time"

	"arcqueue/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const cacheKeyPrefix = "arcqueue:cabinet:"

var ErrCabinetNotFound = errors.New("cabinet not found")

// Directory resolves cabinet identifiers against the arcade directory tables.
// Cabinet records rarely change, so lookups are cached in Redis when a client
// is configured.
type Directory struct {
	db     *gorm.DB
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewDirectory(db *gorm.DB, redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *Directory {
	return &Directory{
		db:     db,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cabinet with id or ErrCabinetNotFound.
func (d *Directory) Get(ctx context.Context, id uuid.UUID) (models.Cabinet, error) {
	if cabinet, ok := d.cached(ctx, id); ok {
		return cabinet, nil
	}

	var cabinet models.Cabinet
	if err := d.db.WithContext(ctx).Where("id = ?", id).Take(&cabinet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cabinet{}, ErrCabinetNotFound
		}
		return models.Cabinet{}, errors.Wrap(err, "failed to load cabinet")
	}

	d.store(ctx, cabinet)
	return cabinet, nil
}

// Game returns the game installed in the cabinet.
func (d *Directory) Game(ctx context.Context, id uuid.UUID) (models.Game, error) {
	cabinet, err := d.Get(ctx, id)
	if err != nil {
		return models.Game{}, err
	}

	var game models.Game
	if err := d.db.WithContext(ctx).Where("name = ?", cabinet.GameName).Take(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Game{}, errors.Wrapf(ErrCabinetNotFound, "game %q of cabinet", cabinet.GameName)
		}
		return models.Game{}, errors.Wrap(err, "failed to load game")
	}
	return game, nil
}

func (d *Directory) cached(ctx context.Context, id uuid.UUID) (models.Cabinet, bool) {
	if d.redis == nil {
		return models.Cabinet{}, false
	}

	raw, err := d.redis.Get(ctx, cacheKeyPrefix+id.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.WithError(err).Warn("cabinet cache read failed")
		}
		return models.Cabinet{}, false
	}

	var cabinet models.Cabinet
	if err := json.Unmarshal(raw, &cabinet); err != nil {
		d.logger.WithError(err).Warn("cabinet cache entry is corrupt")
		return models.Cabinet{}, false
	}
	return cabinet, true
}

func (d *Directory) store(ctx context.Context, cabinet models.Cabinet) {
	if d.redis == nil {
		return
	}

	raw, err := json.Marshal(cabinet)
	if err != nil {
		return
	}
	if err := d.redis.Set(ctx, cacheKeyPrefix+cabinet.ID.String(), raw, d.ttl).Err(); err != nil {
		d.logger.WithError(err).Warn("cabinet cache write failed")
	}
}
