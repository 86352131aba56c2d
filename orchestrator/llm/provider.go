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

package llm

import (
	"context"
	"time"

	"brandforge/platform/shared/types"
)

// Provider is the interface for text completion providers used by the
// compliance engine. Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier used in logging and metrics.
	Name() string

	// Complete generates a text completion. The context carries the
	// per-call timeout.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsHealthy reports whether the last interaction with the provider
	// succeeded.
	IsHealthy() bool
}

// ImageGenerator produces campaign imagery from a text prompt at a fixed
// aspect ratio.
type ImageGenerator interface {
	// Name returns the generator identifier.
	Name() string

	// GenerateImage returns raw image bytes for the prompt.
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
}

// CompletionRequest represents a text completion request.
type CompletionRequest struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	Model        string // Optional model override
}

// CompletionResponse represents a text completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	StopReason string
	Usage      UsageStats
	Latency    time.Duration
}

// UsageStats contains token usage statistics.
type UsageStats struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ImageRequest represents an image generation request.
type ImageRequest struct {
	Prompt      string
	AspectRatio types.AspectRatio
	Model       string // Optional model override
}

// ImageResponse represents a generated image.
type ImageResponse struct {
	Data     []byte // Raw image bytes as returned by the provider
	MIMEType string
	Model    string
	Latency  time.Duration
}
