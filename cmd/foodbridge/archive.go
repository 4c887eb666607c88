package main

import (
	"context"
	"fmt"
	"time"

	"foodbridge/internal/storage"
	"foodbridge/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var archiveCommand = &cli.Command{
	Name:  "archive",
	Usage: "Upload every distributed donation to the S3 archive bucket",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.ArchiveBucket == "" {
			return fmt.Errorf("set ARCHIVE_BUCKET")
		}

		logger := newLogger(cfg)
		ctx := context.Background()

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		coordinator, closeDB, err := openCoordinator(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closeDB()

		donations, err := coordinator.DonationsByStatus(ctx, types.DonationStatusDistributed)
		if err != nil {
			return err
		}

		archive := storage.NewArchive(s3.NewFromConfig(awsConfig), cfg.ArchiveBucket, cfg.ArchivePrefix)
		key, err := archive.UploadDonations(ctx, donations, time.Now().UTC())
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"bucket":    cfg.ArchiveBucket,
			"key":       key,
			"donations": len(donations),
		}).Info("distributed donations archived")

		return nil
	},
}
