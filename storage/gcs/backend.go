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

// Package gcs provides the Google Cloud Storage backend for BrandForge.
package gcs

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"brandforge/platform/shared/types"
	"brandforge/platform/storage/base"
)

// Config contains configuration for the GCS backend.
type Config struct {
	Bucket          string // Required: bucket holding assets/ and output/
	ProjectID       string // Optional: used for logging only
	CredentialsFile string // Optional: falls back to Application Default Credentials
	CredentialsJSON string // Optional: inline service account JSON
	Endpoint        string // Optional: emulator endpoint
}

// Backend implements base.Backend on Google Cloud Storage.
type Backend struct {
	client *storage.Client
	bucket string
}

// Connect builds the GCS client and verifies the bucket is reachable.
func Connect(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, base.NewStorageError("gcs", "Connect", "bucket is required", nil)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, base.NewStorageError("gcs", "Connect", "failed to create GCS client", err)
	}

	// Connectivity probe
	if _, err := client.Bucket(cfg.Bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, base.NewStorageError("gcs", "Connect", "failed to verify GCS connectivity", err)
	}

	return &Backend{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Name returns the backend name
func (b *Backend) Name() string { return "gcs" }

// Mode returns the storage mode
func (b *Backend) Mode() base.Mode { return base.ModeCloud }

// Close releases the underlying client.
func (b *Backend) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

// EnsureLayout is a no-op: GCS has no real folders, keys carry the layout.
func (b *Backend) EnsureLayout(ctx context.Context) error {
	return nil
}

// HealthCheck verifies GCS connectivity
func (b *Backend) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if b.client == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "GCS client not initialized",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	_, err := b.client.Bucket(b.bucket).Attrs(ctx)
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
			"bucket": b.bucket,
		},
		Timestamp: time.Now(),
	}, nil
}

// FindAsset lists the logical key's folder and downloads the first object
// matching the fixed extension precedence.
func (b *Backend) FindAsset(ctx context.Context, logicalKey string) ([]byte, error) {
	prefix := base.AssetPrefix(logicalKey)

	var keys []string
	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to list asset folder", err)
		}
		keys = append(keys, attrs.Name)
	}
	sort.Strings(keys)

	key := pickByExtension(keys)
	if key == "" {
		return nil, base.ErrNotFound
	}

	reader, err := b.client.Bucket(b.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to open object: "+key, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to read object content", err)
	}

	return data, nil
}

// SaveCreative uploads the rendered creative, overwriting any prior object
// at the deterministic key.
func (b *Backend) SaveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error) {
	key := base.CreativeKey(campaignID, productName, ratio)

	writer := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = "image/jpeg"
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", base.NewStorageError(b.Name(), "SaveCreative", "failed to write object: "+key, err)
	}
	if err := writer.Close(); err != nil {
		return "", base.NewStorageError(b.Name(), "SaveCreative", "failed to finalize object: "+key, err)
	}

	return b.location(key), nil
}

// SaveAsset uploads a user-provided source image under the assets root.
func (b *Backend) SaveAsset(ctx context.Context, logicalKey, filename string, data []byte) (string, error) {
	key := base.UploadKey(logicalKey, filename)

	writer := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", base.NewStorageError(b.Name(), "SaveAsset", "failed to write object: "+key, err)
	}
	if err := writer.Close(); err != nil {
		return "", base.NewStorageError(b.Name(), "SaveAsset", "failed to finalize object: "+key, err)
	}

	return b.location(key), nil
}

// ListOutputs returns the locations of every creative under the campaign's
// output prefix, in lexical order.
func (b *Backend) ListOutputs(ctx context.Context, campaignID string) ([]string, error) {
	prefix := base.OutputPrefix(campaignID)

	var locations []string
	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, base.NewStorageError(b.Name(), "ListOutputs", "failed to list outputs", err)
		}
		locations = append(locations, b.location(attrs.Name))
	}

	sort.Strings(locations)
	return locations, nil
}

func (b *Backend) location(key string) string {
	return "gs://" + b.bucket + "/" + key
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
