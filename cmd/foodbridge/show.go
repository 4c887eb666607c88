package main

import (
	"context"
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v2"
)

var showCommand = &cli.Command{
	Name:  "show",
	Usage: "Print a donation together with its requests",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "donation",
			Aliases:  []string{"d"},
			Usage:    "Donation id",
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		ctx := context.Background()

		coordinator, closeDB, err := openCoordinator(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closeDB()

		detail, err := coordinator.Donation(ctx, c.String("donation"))
		if err != nil {
			return err
		}

		_, err = pp.Println(detail)
		return err
	},
}
