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

// Package main is the entry point for the BrandForge orchestrator service.
//
// The orchestrator turns declarative campaign briefs into finished
// social-media creatives:
// - Validates briefs before any external call
// - Runs campaign messages through legal and brand compliance with auto-fix
// - Generates product imagery when no asset was uploaded
// - Renders and persists creatives in three aspect ratios per product
//
// Usage:
//
//	./orchestrator
//
// Environment Variables:
//
//	BRANDFORGE_PORT - HTTP server port (default: 8080)
//	GEMINI_API_KEY - Gemini API key for text and image models
//	BEDROCK_MODEL_ID - AWS Bedrock fallback model (text only)
//	BRANDFORGE_S3_BUCKET - S3 bucket for cloud storage (optional)
//	BRANDFORGE_LOCAL_STORAGE_ROOT - local storage root (default: ./data)
package main

import (
	"log"

	"brandforge/platform/orchestrator"
)

func main() {
	if err := orchestrator.Run(); err != nil {
		log.Fatal(err)
	}
}
