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
	"time"

	"brandforge/platform/orchestrator/llm"
	"brandforge/platform/shared/logger"
	"brandforge/platform/shared/types"
)

// GenerationError reports a failed image generation for one product/ratio
// pair. It is non-fatal to the campaign run.
type GenerationError struct {
	Product string
	Ratio   types.AspectRatio
	Cause   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("image generation failed for %s (%s): %v", e.Product, e.Ratio, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// ImageGenerator produces base product imagery when no uploaded asset
// exists. Each aspect ratio is a separate model call.
type ImageGenerator struct {
	generator llm.ImageGenerator
	log       *logger.Logger
	timeout   time.Duration
}

// NewImageGenerator builds a generator on the given image-capable provider.
func NewImageGenerator(generator llm.ImageGenerator, log *logger.Logger, timeout time.Duration) *ImageGenerator {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ImageGenerator{generator: generator, log: log, timeout: timeout}
}

// Available reports whether a backing image model is configured.
func (g *ImageGenerator) Available() bool { return g.generator != nil }

// Generate produces one base image for the product at the given ratio.
// The locale steers any text the model might render into the scene.
func (g *ImageGenerator) Generate(ctx context.Context, campaignID, runID string, product ProductSpec, ratio types.AspectRatio, locale string) ([]byte, error) {
	if g.generator == nil {
		return nil, &GenerationError{Product: product.Name, Ratio: ratio, Cause: fmt.Errorf("no image-capable provider configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.generator.GenerateImage(ctx, llm.ImageRequest{
		Prompt:      generationPrompt(product, locale),
		AspectRatio: ratio,
	})
	llmCallDuration.WithLabelValues("image").Observe(time.Since(started).Seconds())
	if err != nil {
		g.log.ErrorWithCause(campaignID, runID, "image generation failed", err, map[string]interface{}{
			"product": product.Name,
			"ratio":   ratio.String(),
		})
		return nil, &GenerationError{Product: product.Name, Ratio: ratio, Cause: err}
	}

	g.log.InfoWithDuration(campaignID, runID, "image generated", float64(time.Since(started).Milliseconds()), map[string]interface{}{
		"product": product.Name,
		"ratio":   ratio.String(),
		"bytes":   len(resp.Data),
	})

	return resp.Data, nil
}

// generationPrompt renders the product photography prompt. Description is
// optional; the locale adds a language hint so any in-scene text matches
// the campaign language.
func generationPrompt(product ProductSpec, locale string) string {
	desc := product.Description
	if desc == "" {
		desc = "A high-quality product"
	}

	languageContext := ""
	if language := localeLanguageName(locale); language != "" {
		languageContext = fmt.Sprintf("If any text appears in the image, it must be in %s. ", language)
	}

	return fmt.Sprintf(
		"Professional product photography of %s. %s. %sHigh-quality commercial advertising style. "+
			"Clean background. Studio lighting. Photorealistic. Professional composition.",
		product.Name, desc, languageContext)
}
