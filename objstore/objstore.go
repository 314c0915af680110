// Package objstore resolves a shard URI to a concrete Source and issues
// byte-range reads against it. It is the pluggable "external collaborator"
// boundary spec.md §1 calls out: the object-storage service itself is out of
// scope, but a thin client adapter per supported scheme is not.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package objstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Source is implemented by one adapter per shard URI scheme.
type Source interface {
	// Size returns the shard's total byte length.
	Size(ctx context.Context, color string, year, month int) (int64, error)
	// RangeReader opens an inclusive-exclusive byte range [byteStart,
	// byteEnd) of the shard as a stream of lines.
	RangeReader(ctx context.Context, color string, year, month int, byteStart, byteEnd int64) (io.ReadCloser, error)
}

// Key returns the shard object key/file name for (color, year, month), the
// single naming convention shared by every adapter: "<color>-<year>-<MM>.csv".
func Key(color string, year, month int) string {
	return fmt.Sprintf("%s-%d-%02d.csv", color, year, month)
}

// Resolve maps a shard source URI to a Source implementation:
//
//	stdin                       -> "-"
//	local-file                  -> file://<abs-path-to-directory>
//	object-store (s3/az/gs/...) -> <scheme>://<bucket>
func Resolve(uri string) (Source, error) {
	if uri == "-" {
		return NewStdinSource(), nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid source URI %q: %w", uri, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return NewLocalSource(u.Path), nil
	case "s3":
		return NewS3Source(u.Host)
	case "az", "azblob":
		return NewAzureSource(u.Host)
	case "gs", "gcs":
		return NewGCSSource(u.Host)
	default:
		return nil, fmt.Errorf("objstore: unsupported scheme %q in source URI %q", u.Scheme, uri)
	}
}
