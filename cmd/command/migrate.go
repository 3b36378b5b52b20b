package command

import (
	"context"

	"arcqueue/internal/config"
	"arcqueue/internal/storage"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type MigrateCommand struct {
	Logger *logrus.Logger
}

func (cmd MigrateCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	c := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.main(ctx, cfg, args[0])
		},
	}
	c.Flags().StringVarP(&cfg.Database.Postgres.URL, "pg-url", "u", cfg.Database.Postgres.URL, "PostgreSQL server URL")
	return c
}

func (cmd MigrateCommand) main(ctx context.Context, cfg *config.Config, direction string) error {
	db, err := storage.ConnectDatabase(ctx, cfg.Database.Postgres, cmd.Logger)
	if err != nil {
		return errors.Wrap(err, "migrate : failed to connect to postgresql")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	dbName := cfg.Database.Postgres.DatabaseName()
	switch direction {
	case "up":
		err = storage.MigrateUp(db, dbName)
	case "down":
		err = storage.MigrateDown(db, dbName)
	default:
		err = errors.Errorf("migration command : %s is not supported", direction)
	}
	if err != nil {
		return err
	}

	cmd.Logger.WithField("direction", direction).Info("migrations applied")
	return nil
}
