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

package orchestrator

import (
	"context"
	"fmt"

	"brandforge/platform/config"
	"brandforge/platform/orchestrator/llm"
	"brandforge/platform/orchestrator/llm/bedrock"
	"brandforge/platform/orchestrator/llm/gemini"
	"brandforge/platform/shared/logger"
)

// SelectProviders picks the text and image providers from the configured
// credentials. A Gemini key wins because it covers both concerns; Bedrock
// is text-only, so campaigns then depend on uploaded product assets.
func SelectProviders(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (llm.Provider, llm.ImageGenerator, error) {
	if cfg.GeminiAPIKey != "" {
		provider, err := gemini.NewProvider(gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			TextModel:  cfg.GeminiModel,
			ImageModel: cfg.GeminiImageModel,
			Timeout:    cfg.ImageTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("gemini provider: %w", err)
		}
		log.Info("", "", "llm provider selected", map[string]interface{}{
			"provider":    provider.Name(),
			"model":       cfg.GeminiModel,
			"image_model": cfg.GeminiImageModel,
		})
		return provider, provider, nil
	}

	if cfg.BedrockModelID != "" {
		provider, err := bedrock.NewProvider(ctx, bedrock.Config{
			Model:  cfg.BedrockModelID,
			Region: cfg.AWSRegion,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("bedrock provider: %w", err)
		}
		log.Warn("", "", "llm provider selected without image generation", map[string]interface{}{
			"provider": provider.Name(),
			"model":    cfg.BedrockModelID,
		})
		return provider, nil, nil
	}

	return nil, nil, fmt.Errorf("no llm provider configured: set GEMINI_API_KEY or BEDROCK_MODEL_ID")
}
