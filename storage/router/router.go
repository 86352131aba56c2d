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

// Package router selects the storage backend once at process startup.
//
// Cloud backends are tried in a fixed order (S3, then GCS, then Azure Blob)
// and the first one whose credentials are configured and whose connectivity
// probe passes wins. When no cloud backend is usable the pipeline degrades
// to the local filesystem backend; callers are not told which mode is
// active beyond the logged warning.
package router

import (
	"context"

	"brandforge/platform/shared/logger"
	"brandforge/platform/storage/azureblob"
	"brandforge/platform/storage/base"
	"brandforge/platform/storage/gcs"
	"brandforge/platform/storage/local"
	"brandforge/platform/storage/s3"
)

// Options carries the candidate backend configurations. A nil config means
// the backend's credentials are absent and it is skipped without a probe.
type Options struct {
	S3        *s3.Config
	GCS       *gcs.Config
	AzureBlob *azureblob.Config
	LocalRoot string
}

// candidate pairs a backend name with its deferred connect attempt so the
// selection loop can be exercised without real cloud credentials.
type candidate struct {
	name    string
	connect func(ctx context.Context) (base.Backend, error)
}

// Select resolves the storage backend for the lifetime of the process.
// It never fails over after startup: the chosen backend is the chosen
// backend.
func Select(ctx context.Context, opts Options, log *logger.Logger) (base.Backend, error) {
	var candidates []candidate

	if opts.S3 != nil {
		cfg := *opts.S3
		candidates = append(candidates, candidate{
			name: "s3",
			connect: func(ctx context.Context) (base.Backend, error) {
				return s3.Connect(ctx, cfg)
			},
		})
	}
	if opts.GCS != nil {
		cfg := *opts.GCS
		candidates = append(candidates, candidate{
			name: "gcs",
			connect: func(ctx context.Context) (base.Backend, error) {
				return gcs.Connect(ctx, cfg)
			},
		})
	}
	if opts.AzureBlob != nil {
		cfg := *opts.AzureBlob
		candidates = append(candidates, candidate{
			name: "azureblob",
			connect: func(ctx context.Context) (base.Backend, error) {
				return azureblob.Connect(ctx, cfg)
			},
		})
	}

	return pick(ctx, candidates, opts.LocalRoot, log)
}

// pick runs the candidates in order and falls back to local storage when
// every probe fails or no candidate is configured.
func pick(ctx context.Context, candidates []candidate, localRoot string, log *logger.Logger) (base.Backend, error) {
	for _, c := range candidates {
		backend, err := c.connect(ctx)
		if err != nil {
			log.Warn("", "", "cloud storage probe failed, trying next backend", map[string]interface{}{
				"backend": c.name,
				"error":   err.Error(),
			})
			continue
		}
		if err := backend.EnsureLayout(ctx); err != nil {
			log.Warn("", "", "cloud storage layout setup failed, trying next backend", map[string]interface{}{
				"backend": c.name,
				"error":   err.Error(),
			})
			continue
		}
		log.Info("", "", "storage backend selected", map[string]interface{}{
			"backend": backend.Name(),
			"mode":    string(backend.Mode()),
		})
		return backend, nil
	}

	if len(candidates) > 0 {
		log.Warn("", "", "no cloud storage available, degrading to local filesystem", map[string]interface{}{
			"root": localRoot,
		})
	} else {
		log.Info("", "", "no cloud storage configured, using local filesystem", map[string]interface{}{
			"root": localRoot,
		})
	}

	backend := local.New(localRoot)
	if err := backend.EnsureLayout(ctx); err != nil {
		return nil, base.NewStorageError("local", "EnsureLayout", "failed to prepare local storage root", err)
	}
	return backend, nil
}
