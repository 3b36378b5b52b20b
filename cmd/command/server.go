package command

import (
	"context"

	"arcqueue/internal/cabinets"
	"arcqueue/internal/config"
	"arcqueue/internal/handlers"
	"arcqueue/internal/middleware"
	"arcqueue/internal/queue"
	"arcqueue/internal/server"
	"arcqueue/internal/storage"
	"arcqueue/internal/tasks"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Server struct {
	Logger *logrus.Logger
}

func (cmd Server) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	var autoMigrate bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "run the arcade queue server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.main(ctx, cfg, autoMigrate)
		},
	}

	flags := c.Flags()
	flags.StringVarP(&cfg.Database.Postgres.URL, "pg-url", "u", cfg.Database.Postgres.URL, "PostgreSQL server URL")
	flags.IntVarP(&cfg.HTTP.Port, "port", "p", cfg.HTTP.Port, "port to listen on")
	flags.StringVarP(&cfg.HTTP.Host, "host", "l", cfg.HTTP.Host, "host to listen on")
	flags.BoolVar(&autoMigrate, "auto-migrate", false, "create missing tables from the models on startup")

	return c
}

func (cmd Server) main(ctx context.Context, cfg *config.Config, autoMigrate bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := storage.ConnectDatabase(ctx, cfg.Database.Postgres, cmd.Logger)
	if err != nil {
		return errors.Wrap(err, "server : failed to connect to postgresql")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if autoMigrate {
		if err := storage.AutoMigrate(db); err != nil {
			return err
		}
	}

	redisClient, err := storage.InitRedis(ctx, cfg.Database.Redis, cmd.Logger)
	if err != nil {
		return errors.Wrap(err, "server : failed to connect to redis")
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				cmd.Logger.WithError(err).Error("server : failed to close redis")
			}
		}()
	}

	engine := queue.NewEngine(db, cmd.Logger,
		queue.WithConflictAttempts(cfg.Queue.ConflictRetries),
		queue.WithTxTimeout(cfg.Queue.TxTimeout),
	)
	directory := cabinets.NewDirectory(db, redisClient, cfg.Database.Redis.CacheTTL, cmd.Logger)

	if cfg.Tasks.Enabled {
		planner := tasks.NewPlanner(queue.NewStore(db), cfg.Queue.IdleTTL, cmd.Logger)
		scheduler, err := planner.InitScheduler(cfg.Tasks)
		if err != nil {
			return err
		}
		defer func() {
			<-scheduler.Stop().Done()
			cmd.Logger.Info("cron scheduler stopped")
		}()
	}

	if cfg.AppEnv == config.ProductionEnv {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(
		handlers.NewCabinetHandler(engine, directory, cmd.Logger),
		middleware.ResolveCabinet(directory, cmd.Logger),
		cmd.Logger,
	)

	return server.New(router, cmd.Logger).Serve(ctx, cfg.Addr())
}
