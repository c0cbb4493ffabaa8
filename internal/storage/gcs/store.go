// Package gcs implements a Google Cloud Storage blob store.
package gcs

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// Store uploads artifacts to a GCS bucket. Authentication is handled via
// Application Default Credentials.
type Store struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

// New initializes a GCS client and verifies access to the bucket, so a
// misconfigured deployment fails at startup rather than mid-crawl.
func New(ctx context.Context, bucket string, logger *zap.Logger) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("close gcs client after attrs failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("get gcs bucket %q attributes: %w", bucket, err)
	}

	return &Store{client: client, bucket: bucket, logger: logger}, nil
}

// Save uploads the data to the configured bucket.
func (s *Store) Save(ctx context.Context, objectName string, data []byte) error {
	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		if closeErr := wc.Close(); closeErr != nil {
			s.logger.Warn("close gcs writer after write failure", zap.Error(closeErr))
		}
		return fmt.Errorf("write gcs object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close gcs writer for object %s: %w", objectName, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close gcs client: %w", err)
	}
	return nil
}
