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

package azureblob

import (
	"context"
	"errors"
	"strings"
	"testing"

	"brandforge/platform/storage/base"
)

func TestConnectRequiresContainer(t *testing.T) {
	_, err := Connect(context.Background(), Config{AccountName: "brandforge"})
	if err == nil {
		t.Fatal("expected error when container is missing")
	}

	var storageErr *base.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %T", err)
	}

	if storageErr.Backend != "azureblob" {
		t.Errorf("expected backend azureblob, got %s", storageErr.Backend)
	}
}

func TestConnectRequiresAuthentication(t *testing.T) {
	_, err := Connect(context.Background(), Config{Container: "creatives"})
	if err == nil {
		t.Fatal("expected error with no authentication method")
	}

	if !strings.Contains(err.Error(), "no authentication method") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBackendIdentity(t *testing.T) {
	b := &Backend{accountName: "brandforge", container: "creatives"}

	if b.Name() != "azureblob" {
		t.Errorf("expected name azureblob, got %s", b.Name())
	}

	if b.Mode() != base.ModeCloud {
		t.Errorf("expected cloud mode, got %s", b.Mode())
	}
}

func TestHealthCheckWithoutClient(t *testing.T) {
	b := &Backend{accountName: "brandforge", container: "creatives"}

	status, err := b.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.Healthy {
		t.Error("expected unhealthy status without client")
	}
}

func TestPickByExtension(t *testing.T) {
	keys := []string{
		"assets/hero/hero.png",
		"assets/hero/hero.jpg",
		"assets/hero/readme.md",
	}

	if got := pickByExtension(keys); got != "assets/hero/hero.jpg" {
		t.Errorf("expected jpg to win, got %q", got)
	}

	if got := pickByExtension(nil); got != "" {
		t.Errorf("expected empty result for empty list, got %q", got)
	}
}

func TestLocation(t *testing.T) {
	b := &Backend{accountName: "brandforge", container: "creatives"}

	got := b.location("output/holiday_2025/trail_jacket/16x9.jpg")
	want := "https://brandforge.blob.core.windows.net/creatives/output/holiday_2025/trail_jacket/16x9.jpg"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
