//go:build azure

// Package objstore: Azure Blob adapter, grounded on the teacher's
// `ais/backend/azure.go` (same SDK, same env-var configuration convention).
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package objstore

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

const (
	azAccNameEnvVar = "AZURE_STORAGE_ACCOUNT"
	azAccKeyEnvVar  = "AZURE_STORAGE_KEY"
	azHost          = ".blob.core.windows.net"
)

// AzureSource reads a shard from an Azure Blob container via DownloadStream
// range requests.
type AzureSource struct {
	container string
	client    *azblob.Client
}

var _ Source = (*AzureSource)(nil)

func NewAzureSource(container string) (*AzureSource, error) {
	accName, accKey := os.Getenv(azAccNameEnvVar), os.Getenv(azAccKeyEnvVar)
	cred, err := azblob.NewSharedKeyCredential(accName, accKey)
	if err != nil {
		return nil, fmt.Errorf("objstore: azure shared-key credential: %w", err)
	}
	serviceURL := "https://" + accName + azHost
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("objstore: azure client: %w", err)
	}
	return &AzureSource{container: container, client: client}, nil
}

func (s *AzureSource) Size(ctx context.Context, color string, year, month int) (int64, error) {
	props, err := s.client.ServiceClient().NewContainerClient(s.container).
		NewBlobClient(Key(color, year, month)).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return 0, fmt.Errorf("objstore: azure blob %s: %w", Key(color, year, month), os.ErrNotExist)
		}
		return 0, err
	}
	if props.ContentLength == nil {
		return 0, fmt.Errorf("objstore: azure blob %s: no content length", Key(color, year, month))
	}
	return *props.ContentLength, nil
}

func (s *AzureSource) RangeReader(ctx context.Context, color string, year, month int, byteStart, byteEnd int64) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, Key(color, year, month), &azblob.DownloadStreamOptions{
		Range: blob.HTTPRange{Offset: byteStart, Count: byteEnd - byteStart},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
