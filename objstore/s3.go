// Package objstore: S3 adapter, grounded on the teacher's `ais/backend`
// provider pattern (one small adapter struct per cloud, selected by URI
// scheme) and on the teacher's direct dependency on aws-sdk-go-v2.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3Source reads a shard from an S3-compatible bucket via byte-range GETs.
type S3Source struct {
	bucket string
	client *s3.Client
}

var _ Source = (*S3Source)(nil)

func NewS3Source(bucket string) (*S3Source, error) {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("objstore: load AWS config: %w", err)
	}
	return &S3Source{bucket: bucket, client: s3.NewFromConfig(cfg)}, nil
}

func (s *S3Source) Size(ctx context.Context, color string, year, month int) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(Key(color, year, month)),
	})
	if err != nil {
		var respErr *smithyhttp.ResponseError
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
			return 0, fmt.Errorf("objstore: s3 object %s: %w", Key(color, year, month), os.ErrNotExist)
		}
		return 0, err
	}
	return aws.ToInt64(out.ContentLength), nil
}

func (s *S3Source) RangeReader(ctx context.Context, color string, year, month int, byteStart, byteEnd int64) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(Key(color, year, month)),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", byteStart, byteEnd-1)),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}
