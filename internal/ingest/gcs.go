// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package ingest

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/tomtom215/animeprep/internal/logging"
)

// objectOpener opens a bucket object for reading.
type objectOpener func(ctx context.Context, name string) (io.ReadCloser, error)

// GCSFetcher downloads raw files from a Google Cloud Storage bucket.
type GCSFetcher struct {
	bucket string
	opts   Options
	open   objectOpener
	client *storage.Client
}

// NewGCSFetcher creates a client for bucket. When credentialsFile is empty
// Application Default Credentials are used. A non-empty quotaProject is
// charged for quota and billing, as needed for requester-pays buckets.
func NewGCSFetcher(ctx context.Context, bucket, quotaProject, credentialsFile string, opts Options) (*GCSFetcher, error) {
	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	if quotaProject != "" {
		clientOpts = append(clientOpts, option.WithQuotaProject(quotaProject))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	handle := client.Bucket(bucket)
	f := &GCSFetcher{
		bucket: bucket,
		opts:   opts,
		client: client,
		open: func(ctx context.Context, name string) (io.ReadCloser, error) {
			return handle.Object(name).NewReader(ctx)
		},
	}
	return f, nil
}

// Fetch downloads gs://bucket/name into the raw directory. The ratings file is
// truncated to the configured number of data rows while it streams.
func (f *GCSFetcher) Fetch(ctx context.Context, name string) (string, error) {
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	rc, err := f.open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("open gs://%s/%s: %w", f.bucket, name, err)
	}
	defer func() { _ = rc.Close() }()

	limit := f.opts.rowLimit(name)
	if limit > 0 {
		logging.Ctx(ctx).Debug().Str("file", name).Int("max_rows", limit).Msg("Truncating while downloading")
	}
	return writeRaw(f.opts.RawDir, name, rc, limit)
}

// Close releases the storage client.
func (f *GCSFetcher) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
