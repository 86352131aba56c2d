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

package gcs

import (
	"context"
	"errors"
	"testing"

	"brandforge/platform/storage/base"
)

func TestConnectRequiresBucket(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected error when bucket is missing")
	}

	var storageErr *base.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %T", err)
	}

	if storageErr.Backend != "gcs" {
		t.Errorf("expected backend gcs, got %s", storageErr.Backend)
	}
}

func TestBackendIdentity(t *testing.T) {
	b := &Backend{bucket: "creatives"}

	if b.Name() != "gcs" {
		t.Errorf("expected name gcs, got %s", b.Name())
	}

	if b.Mode() != base.ModeCloud {
		t.Errorf("expected cloud mode, got %s", b.Mode())
	}
}

func TestHealthCheckWithoutClient(t *testing.T) {
	b := &Backend{bucket: "creatives"}

	status, err := b.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.Healthy {
		t.Error("expected unhealthy status without client")
	}
}

func TestCloseWithoutClient(t *testing.T) {
	b := &Backend{}

	if err := b.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPickByExtension(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{
			name: "jpg wins over webp",
			keys: []string{"assets/hero/hero.webp", "assets/hero/hero.jpg"},
			want: "assets/hero/hero.jpg",
		},
		{
			name: "png before webp",
			keys: []string{"assets/hero/a.webp", "assets/hero/b.png"},
			want: "assets/hero/b.png",
		},
		{
			name: "no image objects",
			keys: []string{"assets/hero/manifest.yaml"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickByExtension(tt.keys); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	b := &Backend{bucket: "creatives"}

	got := b.location("assets/hero/hero.jpg")
	want := "gs://creatives/assets/hero/hero.jpg"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
