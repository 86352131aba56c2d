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

package s3

import (
	"context"
	"errors"
	"testing"

	"brandforge/platform/storage/base"
)

func TestConnectRequiresBucket(t *testing.T) {
	ctx := context.Background()

	_, err := Connect(ctx, Config{})
	if err == nil {
		t.Fatal("expected error when bucket is missing")
	}

	var storageErr *base.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %T", err)
	}

	if storageErr.Backend != "s3" {
		t.Errorf("expected backend s3, got %s", storageErr.Backend)
	}

	if storageErr.Operation != "Connect" {
		t.Errorf("expected operation Connect, got %s", storageErr.Operation)
	}
}

func TestBackendIdentity(t *testing.T) {
	b := &Backend{bucket: "creatives"}

	if b.Name() != "s3" {
		t.Errorf("expected name s3, got %s", b.Name())
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

	if status.Error == "" {
		t.Error("expected error detail in status")
	}
}

func TestEnsureLayoutIsNoOp(t *testing.T) {
	b := &Backend{bucket: "creatives"}

	if err := b.EnsureLayout(context.Background()); err != nil {
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
			name: "jpg wins over png",
			keys: []string{"assets/hero/hero.png", "assets/hero/hero.jpg"},
			want: "assets/hero/hero.jpg",
		},
		{
			name: "jpeg wins over webp",
			keys: []string{"assets/hero/photo.webp", "assets/hero/photo.jpeg"},
			want: "assets/hero/photo.jpeg",
		},
		{
			name: "case insensitive",
			keys: []string{"assets/hero/HERO.JPG"},
			want: "assets/hero/HERO.JPG",
		},
		{
			name: "non-image keys ignored",
			keys: []string{"assets/hero/notes.txt", "assets/hero/.keep"},
			want: "",
		},
		{
			name: "empty folder",
			keys: nil,
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

	got := b.location("output/holiday_2025/trail_jacket/1x1.jpg")
	want := "s3://creatives/output/holiday_2025/trail_jacket/1x1.jpg"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
