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

// Package local provides the local-filesystem storage backend. It is the
// automatic fallback when no cloud credentials are configured and mirrors
// the cloud backends' relative layout under a configurable root directory.
package local

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"brandforge/platform/shared/types"
	"brandforge/platform/storage/base"
)

// Backend implements base.Backend on the local filesystem.
type Backend struct {
	root string
}

// New creates a local backend rooted at the given directory. The directory
// does not need to exist yet; EnsureLayout creates it.
func New(root string) *Backend {
	return &Backend{root: root}
}

// Name returns the backend name
func (b *Backend) Name() string { return "local" }

// Mode returns the storage mode
func (b *Backend) Mode() base.Mode { return base.ModeLocal }

// Root returns the backend's root directory.
func (b *Backend) Root() string { return b.root }

// EnsureLayout creates the assets and output directories, tolerating
// already-exists as success.
func (b *Backend) EnsureLayout(ctx context.Context) error {
	for _, dir := range []string{base.AssetsRoot, base.OutputRoot} {
		if err := os.MkdirAll(filepath.Join(b.root, dir), 0o755); err != nil {
			return base.NewStorageError(b.Name(), "EnsureLayout", "failed to create "+dir, err)
		}
	}
	return nil
}

// HealthCheck verifies the root directory is usable
func (b *Backend) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	start := time.Now()

	info, err := os.Stat(b.root)
	if err != nil || !info.IsDir() {
		msg := "root is not a directory"
		if err != nil {
			msg = err.Error()
		}
		return &base.HealthStatus{
			Healthy:   false,
			Error:     msg,
			Latency:   time.Since(start),
			Timestamp: time.Now(),
		}, nil
	}

	return &base.HealthStatus{
		Healthy:   true,
		Latency:   time.Since(start),
		Details:   map[string]string{"root": b.root},
		Timestamp: time.Now(),
	}, nil
}

// FindAsset returns the first image in the logical key's folder following
// the fixed extension precedence.
func (b *Backend) FindAsset(ctx context.Context, logicalKey string) ([]byte, error) {
	dir := filepath.Join(b.root, base.AssetsRoot, logicalKey)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, base.ErrNotFound
		}
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to read asset folder", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, ext := range base.AssetExtensions {
		for _, name := range names {
			if strings.EqualFold(filepath.Ext(name), ext) {
				data, err := os.ReadFile(filepath.Join(dir, name))
				if err != nil {
					return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to read "+name, err)
				}
				return data, nil
			}
		}
	}

	return nil, base.ErrNotFound
}

// SaveCreative writes the rendered creative, overwriting any prior file at
// the deterministic path.
func (b *Backend) SaveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error) {
	rel := base.CreativeKey(campaignID, productName, ratio)
	dest := filepath.Join(b.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", base.NewStorageError(b.Name(), "SaveCreative", "failed to create output folder", err)
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", base.NewStorageError(b.Name(), "SaveCreative", "failed to write creative", err)
	}

	return dest, nil
}

// SaveAsset stores a user-provided source image under the assets root.
func (b *Backend) SaveAsset(ctx context.Context, logicalKey, filename string, data []byte) (string, error) {
	rel := base.UploadKey(logicalKey, filename)
	dest := filepath.Join(b.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", base.NewStorageError(b.Name(), "SaveAsset", "failed to create asset folder", err)
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", base.NewStorageError(b.Name(), "SaveAsset", "failed to write asset", err)
	}

	return dest, nil
}

// ListOutputs walks the campaign's output folder and returns every creative
// path in lexical order.
func (b *Backend) ListOutputs(ctx context.Context, campaignID string) ([]string, error) {
	dir := filepath.Join(b.root, base.OutputRoot, campaignID)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".jpg") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "ListOutputs", "failed to walk output folder", err)
	}

	sort.Strings(files)
	return files, nil
}

// Verify Backend implements base.Backend
var _ base.Backend = (*Backend)(nil)
