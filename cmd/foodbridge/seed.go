package main

import (
	"context"
	"fmt"

	"foodbridge/internal/db"
	"foodbridge/internal/seed"
	"foodbridge/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo donors, organizations and donations",
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

		logger.Info("Connected to database")

		s := store.New(database, cfg.DatabaseDriver)

		logger.Info("Seeding users...")
		if err := seed.SeedUsers(ctx, s.Users); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logger.Info("Seeding donations...")
		if err := seed.SeedDonations(ctx, s.Donations); err != nil {
			return fmt.Errorf("failed to seed donations: %w", err)
		}

		logger.Info("Demo data seeded successfully")

		return nil
	},
}
