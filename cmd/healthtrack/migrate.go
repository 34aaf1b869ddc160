package main

import (
	"context"
	"log/slog"

	"healthtrack/config"
	logs "healthtrack/internal/infra/log"
	"healthtrack/internal/infra/persistence/sqlstore"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return err
	}

	db, err := sqlstore.Open(cfg, logger)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	defer sqlDB.Close()

	if err := sqlstore.AutoMigrate(ctx, db); err != nil {
		return err
	}

	logger.Info("Database schema is up to date", slog.String("driver", cfg.Database.Driver))

	return nil
}
