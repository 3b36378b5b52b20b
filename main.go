package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"arcqueue/cmd/command"
	_ "arcqueue/docs"
	"arcqueue/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// @title			Arcade Queue API
// @version		1.0
// @description	Waiting lines for arcade cabinets
// @BasePath		/
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()

	if os.Getenv("SKIP_DOTENV") == "" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.WithError(err).Warn("failed to load .env")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithContext(ctx).Fatal(err)
	}

	logger.SetLevel(cfg.Level())
	if cfg.AppEnv == config.ProductionEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	root := &cobra.Command{
		Use:           "arcqueue",
		Short:         "Arcade Queue Server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		command.Server{Logger: logger}.Command(ctx, cfg),
		command.MigrateCommand{Logger: logger}.Command(ctx, cfg),
	)

	if err := root.Execute(); err != nil {
		logger.WithContext(ctx).Fatalf("failed to execute root command: \n%v", err)
	}
}
