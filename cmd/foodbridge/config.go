package main

import (
	"context"
	"fmt"
	"time"

	"foodbridge/internal/db"
	"foodbridge/internal/lifecycle"
	"foodbridge/internal/store"
	"foodbridge/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func loadConfig(cCtx *cli.Context) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(cCtx.String("env-prefix"), c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	switch c.DatabaseDriver {
	case db.DriverPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("set DATABASE_URL")
		}
	case db.DriverSQLite:
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER must be %s or %s, got %q", db.DriverPostgres, db.DriverSQLite, c.DatabaseDriver)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awsConfig, nil
}

func newLogger(cfg *types.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// openCoordinator connects to the record store and builds the lifecycle
// coordinator on top of it. The returned func closes the store.
func openCoordinator(ctx context.Context, cfg *types.Config, logger *logrus.Logger, reg prometheus.Registerer) (*lifecycle.Coordinator, func(), error) {
	database, closeDB, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storeTimeout := time.Duration(cfg.StoreTimeoutMS) * time.Millisecond
	coordinator, err := lifecycle.New(store.New(database, cfg.DatabaseDriver), logger, reg, storeTimeout)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	return coordinator, closeDB, nil
}
