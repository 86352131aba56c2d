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

package base

import (
	"context"
	"errors"
	"time"

	"brandforge/platform/shared/types"
)

// Mode distinguishes cloud object stores from the local filesystem.
type Mode string

const (
	ModeCloud Mode = "cloud"
	ModeLocal Mode = "local"
)

// ErrNotFound is returned by FindAsset when no candidate file exists for a
// logical key. It is the expected trigger for image generation, not a failure.
var ErrNotFound = errors.New("asset not found")

// Backend is the uniform interface over every storage implementation.
// A backend is selected once at startup and never swapped for the life of
// the process; all methods must be safe for concurrent use.
type Backend interface {
	// Lifecycle
	EnsureLayout(ctx context.Context) error
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Asset lookup: returns the bytes of the first matching file for the
	// logical key, probing AssetExtensions in order. Returns ErrNotFound
	// (possibly wrapped) when nothing matches.
	FindAsset(ctx context.Context, logicalKey string) ([]byte, error)

	// Creative persistence: writes the rendered JPEG to the deterministic
	// output path, overwriting any prior object, and returns the durable
	// location string.
	SaveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error)

	// SaveAsset stores a user-provided source image under the assets root
	// and returns its durable location.
	SaveAsset(ctx context.Context, logicalKey, filename string, data []byte) (string, error)

	// ListOutputs returns the durable locations of every creative produced
	// for a campaign, in lexical order. A campaign with no outputs yields
	// an empty slice, not an error.
	ListOutputs(ctx context.Context, campaignID string) ([]string, error)

	// Metadata
	Name() string
	Mode() Mode
}

// HealthStatus represents the health of a storage backend
type HealthStatus struct {
	Healthy   bool              `json:"healthy"`
	Latency   time.Duration     `json:"latency"`
	Details   map[string]string `json:"details"`
	Timestamp time.Time         `json:"timestamp"`
	Error     string            `json:"error"`
}

// StorageError represents errors specific to backend operations. Not-found
// conditions are not StorageErrors; they are ErrNotFound.
type StorageError struct {
	Backend   string
	Operation string
	Message   string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return e.Backend + "." + e.Operation + ": " + e.Message + " (cause: " + e.Cause.Error() + ")"
	}
	return e.Backend + "." + e.Operation + ": " + e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError
func NewStorageError(backend, operation, message string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}
