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

package router

import (
	"context"
	"errors"
	"testing"

	"brandforge/platform/shared/logger"
	"brandforge/platform/shared/types"
	"brandforge/platform/storage/base"
)

type stubBackend struct {
	name string
}

func (s *stubBackend) Name() string                                  { return s.name }
func (s *stubBackend) Mode() base.Mode                               { return base.ModeCloud }
func (s *stubBackend) EnsureLayout(ctx context.Context) error        { return nil }
func (s *stubBackend) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	return &base.HealthStatus{Healthy: true}, nil
}
func (s *stubBackend) FindAsset(ctx context.Context, logicalKey string) ([]byte, error) {
	return nil, base.ErrNotFound
}
func (s *stubBackend) SaveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error) {
	return "", nil
}
func (s *stubBackend) SaveAsset(ctx context.Context, logicalKey, filename string, data []byte) (string, error) {
	return "", nil
}
func (s *stubBackend) ListOutputs(ctx context.Context, campaignID string) ([]string, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New("router-test")
}

func TestPickFirstHealthyCandidate(t *testing.T) {
	ctx := context.Background()

	candidates := []candidate{
		{
			name: "s3",
			connect: func(ctx context.Context) (base.Backend, error) {
				return &stubBackend{name: "s3"}, nil
			},
		},
		{
			name: "gcs",
			connect: func(ctx context.Context) (base.Backend, error) {
				t.Fatal("second candidate should not be probed")
				return nil, nil
			},
		},
	}

	backend, err := pick(ctx, candidates, t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.Name() != "s3" {
		t.Errorf("expected s3, got %s", backend.Name())
	}
}

func TestPickSkipsFailedProbes(t *testing.T) {
	ctx := context.Background()

	candidates := []candidate{
		{
			name: "s3",
			connect: func(ctx context.Context) (base.Backend, error) {
				return nil, errors.New("access denied")
			},
		},
		{
			name: "gcs",
			connect: func(ctx context.Context) (base.Backend, error) {
				return &stubBackend{name: "gcs"}, nil
			},
		},
	}

	backend, err := pick(ctx, candidates, t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.Name() != "gcs" {
		t.Errorf("expected gcs, got %s", backend.Name())
	}
}

func TestPickFallsBackToLocal(t *testing.T) {
	ctx := context.Background()

	candidates := []candidate{
		{
			name: "s3",
			connect: func(ctx context.Context) (base.Backend, error) {
				return nil, errors.New("no route to host")
			},
		},
	}

	backend, err := pick(ctx, candidates, t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.Name() != "local" {
		t.Errorf("expected local fallback, got %s", backend.Name())
	}

	if backend.Mode() != base.ModeLocal {
		t.Errorf("expected local mode, got %s", backend.Mode())
	}
}

func TestPickWithoutCandidates(t *testing.T) {
	backend, err := pick(context.Background(), nil, t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.Name() != "local" {
		t.Errorf("expected local, got %s", backend.Name())
	}
}

func TestSelectWithNoCloudConfig(t *testing.T) {
	backend, err := Select(context.Background(), Options{LocalRoot: t.TempDir()}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.Mode() != base.ModeLocal {
		t.Errorf("expected local mode, got %s", backend.Mode())
	}
}
