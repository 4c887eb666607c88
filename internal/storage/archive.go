package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"foodbridge/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the slice of the S3 client the archive needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive writes snapshots of distributed donations to an S3 bucket.
type Archive struct {
	client putObjectAPI
	bucket string
	prefix string
}

func NewArchive(client putObjectAPI, bucket, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

type archiveDocument struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Count       int               `json:"count"`
	Donations   []*types.Donation `json:"donations"`
}

// Key returns the object key a snapshot taken at now is stored under.
func (a *Archive) Key(now time.Time) string {
	return path.Join(a.prefix, now.Format("2006/01/02"), fmt.Sprintf("distributed-%s.json", now.Format("20060102T150405Z")))
}

// UploadDonations stores the donations as one JSON document and returns its
// object key.
func (a *Archive) UploadDonations(ctx context.Context, donations []*types.Donation, now time.Time) (string, error) {
	if donations == nil {
		donations = []*types.Donation{}
	}

	body, err := json.Marshal(archiveDocument{
		GeneratedAt: now,
		Count:       len(donations),
		Donations:   donations,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode archive: %w", err)
	}

	key := a.Key(now)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive %s to bucket %s: %w", key, a.bucket, err)
	}

	return key, nil
}
