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

/*
Command orchestrator runs the BrandForge creative automation service.

The service accepts YAML campaign briefs over HTTP and produces finished
social-media creatives per product in 1:1, 9:16 and 16:9 formats, with
LLM-backed legal and brand compliance on every campaign message.

# Usage

	orchestrator

# Environment Variables

Provider (one required):
  - GEMINI_API_KEY: Gemini API key (text + image generation)
  - BEDROCK_MODEL_ID: AWS Bedrock model (text only; campaigns then
    require uploaded product assets)

Storage (all optional; first configured and reachable backend wins,
local filesystem is the fallback):
  - BRANDFORGE_S3_BUCKET: S3 bucket name
  - BRANDFORGE_GCS_BUCKET: GCS bucket name
  - BRANDFORGE_AZURE_CONTAINER: Azure Blob container
  - BRANDFORGE_LOCAL_STORAGE_ROOT: local root (default: ./data)

Service:
  - BRANDFORGE_PORT: HTTP port (default: 8080)
  - BRANDFORGE_WORKER_LIMIT: concurrent product workers (default: 3)
  - BRANDFORGE_GUIDELINES_FILE: brand guidelines YAML override
  - BRANDFORGE_SECRETS_ARN: AWS Secrets Manager ARN for credentials

# Example

	export GEMINI_API_KEY="AIza..."
	export BRANDFORGE_S3_BUCKET="brandforge-creatives"
	./orchestrator
*/
package main
