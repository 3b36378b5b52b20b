package storage

import (
	"context"
	"time"

	"arcqueue/internal/config"
	"arcqueue/internal/models"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the shared Postgres pool. All cabinets share it; its
// size only bounds throughput.
func ConnectDatabase(ctx context.Context, cfg config.Postgres, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "storage : failed to open postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "storage : failed to get sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "storage : failed to ping postgres")
	}

	log.WithField("database", cfg.DatabaseName()).Info("connected to postgres")
	return db, nil
}

// AutoMigrate creates the tables from the models. The SQL migrations are the
// source of truth in production; this keeps development and tests simple.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Arcade{},
		&models.Game{},
		&models.Cabinet{},
		&models.Queue{},
		&models.QueueEntry{},
	); err != nil {
		return errors.Wrap(err, "storage : auto migration failed")
	}
	return nil
}

// InitRedis returns nil when no address is configured; callers treat a nil
// client as "caching disabled".
func InitRedis(ctx context.Context, cfg config.Redis, log *logrus.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		log.Info("redis address not set, cabinet cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "storage : failed to ping redis")
	}

	log.Infof("redis is running on %s on db %d", cfg.Addr, cfg.Database)
	return rdb, nil
}
