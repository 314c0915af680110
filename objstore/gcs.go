//go:build gcs

// Package objstore: Google Cloud Storage adapter, grounded on the teacher's
// direct dependency on cloud.google.com/go/storage.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// GCSSource reads a shard from a GCS bucket via a ranged object reader.
type GCSSource struct {
	bucket string
	client *storage.Client
}

var _ Source = (*GCSSource)(nil)

func NewGCSSource(bucket string) (*GCSSource, error) {
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, err
	}
	return &GCSSource{bucket: bucket, client: client}, nil
}

func (s *GCSSource) Size(ctx context.Context, color string, year, month int) (int64, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(Key(color, year, month)).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return 0, fmt.Errorf("objstore: gcs object %s: %w", Key(color, year, month), os.ErrNotExist)
		}
		return 0, err
	}
	return attrs.Size, nil
}

func (s *GCSSource) RangeReader(ctx context.Context, color string, year, month int, byteStart, byteEnd int64) (io.ReadCloser, error) {
	return s.client.Bucket(s.bucket).Object(Key(color, year, month)).NewRangeReader(ctx, byteStart, byteEnd-byteStart)
}
