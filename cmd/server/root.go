package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/config"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

var (
	cfg    *config.Config
	logger *internal.ZapLogger
)

var rootCmd = &cobra.Command{
	Use:   "fitness-server",
	Short: "Student fitness tracking API",
	Long: `Tracks daily fitness logs and goals for students, scores each day's
lifestyle, and rewards completed goals with points, levels and badges.

Configuration comes from the environment (and a .env file when present):

  APP_ENV            development | staging | production
  STORAGE_BACKEND    file | postgres
  DATA_DIR           directory for the file backend
  POSTGRES_DSN       connection string for the postgres backend
  JWT_SECRET         token signing secret (required outside development)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.FromEnv()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = c
		logger, err = internal.NewLogger(cfg.Env, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		return nil
	},
}

func init() {
	config.LoadDotEnv()
	rootCmd.AddCommand(serveCmd, migrateCmd, recalculateLevelsCmd)
}

func openStorage(ctx context.Context) (*storage.Repositories, error) {
	repos, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.DBType, err)
	}
	return repos, nil
}
