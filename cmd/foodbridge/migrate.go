package main

import (
	"context"
	"fmt"

	"foodbridge/internal/db"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the record store schema",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		ctx := context.Background()

		database, closeDB, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer closeDB()

		if err := db.Migrate(ctx, database, cfg.DatabaseDriver); err != nil {
			return err
		}

		logger.WithField("driver", cfg.DatabaseDriver).Info("schema applied")

		return nil
	},
}
