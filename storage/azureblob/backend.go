// Copyright 2025 BrandForge
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package azureblob provides the Azure Blob Storage backend for BrandForge.
// It supports connection string, shared key, and DefaultAzureCredential
// authentication.
package azureblob

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"brandforge/platform/shared/types"
	"brandforge/platform/storage/base"
)

// Config contains configuration for the Azure Blob backend.
type Config struct {
	Container        string // Required: container holding assets/ and output/
	AccountName      string // Required unless ConnectionString is set
	AccountKey       string // Optional: shared key authentication
	ConnectionString string // Optional: overrides account name/key
}

// Backend implements base.Backend on Azure Blob Storage.
type Backend struct {
	client      *azblob.Client
	accountName string
	container   string
}

// Connect builds the Azure Blob client and verifies the container is
// reachable. Connection string wins over shared key; with neither set the
// DefaultAzureCredential chain is used.
func Connect(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Container == "" {
		return nil, base.NewStorageError("azureblob", "Connect", "container is required", nil)
	}

	var client *azblob.Client
	var err error

	switch {
	case cfg.ConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, base.NewStorageError("azureblob", "Connect", "failed to create client from connection string", err)
		}
	case cfg.AccountName != "" && cfg.AccountKey != "":
		serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
		cred, credErr := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if credErr != nil {
			return nil, base.NewStorageError("azureblob", "Connect", "failed to create shared key credential", credErr)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, base.NewStorageError("azureblob", "Connect", "failed to create client", err)
		}
	case cfg.AccountName != "":
		serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, base.NewStorageError("azureblob", "Connect", "failed to create Azure credential", credErr)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, base.NewStorageError("azureblob", "Connect", "failed to create client", err)
		}
	default:
		return nil, base.NewStorageError("azureblob", "Connect", "no authentication method provided", nil)
	}

	b := &Backend{
		client:      client,
		accountName: cfg.AccountName,
		container:   cfg.Container,
	}

	// Connectivity probe
	containerClient := client.ServiceClient().NewContainerClient(cfg.Container)
	if _, err := containerClient.GetProperties(ctx, nil); err != nil {
		return nil, base.NewStorageError("azureblob", "Connect", "failed to verify Azure Blob connectivity", err)
	}

	return b, nil
}

// Name returns the backend name
func (b *Backend) Name() string { return "azureblob" }

// Mode returns the storage mode
func (b *Backend) Mode() base.Mode { return base.ModeCloud }

// EnsureLayout is a no-op: blob names carry the layout.
func (b *Backend) EnsureLayout(ctx context.Context) error {
	return nil
}

// HealthCheck verifies Azure Blob connectivity
func (b *Backend) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if b.client == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "Azure Blob client not initialized",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	containerClient := b.client.ServiceClient().NewContainerClient(b.container)
	_, err := containerClient.GetProperties(ctx, nil)
	latency := time.Since(start)

	if err != nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     err.Error(),
			Latency:   latency,
			Timestamp: time.Now(),
		}, nil
	}

	return &base.HealthStatus{
		Healthy: true,
		Latency: latency,
		Details: map[string]string{
			"account":   b.accountName,
			"container": b.container,
		},
		Timestamp: time.Now(),
	}, nil
}

// FindAsset lists the logical key's folder and downloads the first blob
// matching the fixed extension precedence.
func (b *Backend) FindAsset(ctx context.Context, logicalKey string) ([]byte, error) {
	prefix := base.AssetPrefix(logicalKey)

	keys, err := b.listKeys(ctx, prefix)
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to list asset folder", err)
	}

	key := pickByExtension(keys)
	if key == "" {
		return nil, base.ErrNotFound
	}

	blobClient := b.client.ServiceClient().NewContainerClient(b.container).NewBlobClient(key)
	resp, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to download blob: "+key, err)
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to read blob content", err)
	}

	return data, nil
}

// SaveCreative uploads the rendered creative, overwriting any prior blob at
// the deterministic name.
func (b *Backend) SaveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error) {
	key := base.CreativeKey(campaignID, productName, ratio)

	contentType := "image/jpeg"
	_, err := b.client.UploadBuffer(ctx, b.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", base.NewStorageError(b.Name(), "SaveCreative", "failed to upload blob: "+key, err)
	}

	return b.location(key), nil
}

// SaveAsset uploads a user-provided source image under the assets root.
func (b *Backend) SaveAsset(ctx context.Context, logicalKey, filename string, data []byte) (string, error) {
	key := base.UploadKey(logicalKey, filename)

	_, err := b.client.UploadBuffer(ctx, b.container, key, data, nil)
	if err != nil {
		return "", base.NewStorageError(b.Name(), "SaveAsset", "failed to upload blob: "+key, err)
	}

	return b.location(key), nil
}

// ListOutputs returns the locations of every creative under the campaign's
// output prefix, in lexical order.
func (b *Backend) ListOutputs(ctx context.Context, campaignID string) ([]string, error) {
	prefix := base.OutputPrefix(campaignID)

	keys, err := b.listKeys(ctx, prefix)
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "ListOutputs", "failed to list outputs", err)
	}

	locations := make([]string, 0, len(keys))
	for _, key := range keys {
		locations = append(locations, b.location(key))
	}
	sort.Strings(locations)
	return locations, nil
}

// listKeys drains the flat blob pager for a prefix and returns sorted names.
func (b *Backend) listKeys(ctx context.Context, prefix string) ([]string, error) {
	containerClient := b.client.ServiceClient().NewContainerClient(b.container)
	pager := containerClient.NewListBlobsFlatPager(&container.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var keys []string
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Segment.BlobItems {
			if item.Name != nil {
				keys = append(keys, *item.Name)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *Backend) location(key string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", b.accountName, b.container, key)
}

// pickByExtension applies the fixed extension precedence to a sorted key
// list and returns the winning key, or "" when nothing matches.
func pickByExtension(keys []string) string {
	for _, ext := range base.AssetExtensions {
		for _, key := range keys {
			if strings.HasSuffix(strings.ToLower(key), ext) {
				return key
			}
		}
	}
	return ""
}

// Verify Backend implements base.Backend
var _ base.Backend = (*Backend)(nil)
