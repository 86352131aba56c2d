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
Package orchestrator drives marketing campaign briefs through the
BrandForge creative pipeline.

# Overview

A campaign run takes a declarative YAML brief and produces finished
social-media creatives in three aspect ratios (1:1, 9:16, 16:9) per
product. The run moves through four stages:

	VALIDATE → COMPLIANCE → PROCESS_PRODUCTS → FINALIZE

Validation checks the brief completely before any external call is
made. Compliance runs the campaign message through concurrent legal
and brand checks backed by an LLM, with up to five automatic rewrite
attempts before the campaign is rejected. Product processing uses an
uploaded asset when one exists under the product's logical key, and
generates imagery otherwise; each product's three ratios are rendered
and persisted independently, so a single failure never sinks the run.

# Compliance fail-open

When a compliance check or rewrite call itself fails (network error,
provider outage), the message active at that moment is accepted and the
result is flagged FailOpen. A creative pipeline that silently stalls on
a transient LLM outage is worse than one that ships an unverified
message and says so loudly.

# HTTP API

	POST /api/v1/campaigns/generate           - start an async campaign run
	POST /api/v1/campaigns/parse-brief        - validate a brief, list locales/variants
	GET  /api/v1/campaigns/{run_id}/status    - run progress, logs, result
	GET  /api/v1/campaigns/{campaign_id}/outputs - produced creative locations
	POST /api/v1/assets/{key}                 - upload a product source image
	GET  /api/v1/health                       - storage and provider health
	GET  /metrics                             - Prometheus metrics

# Usage

	// Start the service
	orchestrator.Run()

	// Configuration comes from environment variables:
	// BRANDFORGE_PORT            - HTTP port (default: 8080)
	// BRANDFORGE_WORKER_LIMIT    - concurrent product workers (default: 3)
	// GEMINI_API_KEY             - Gemini text + image models
	// BEDROCK_MODEL_ID           - Bedrock fallback (text only)
	// BRANDFORGE_S3_BUCKET       - S3 storage (first cloud candidate)
	// BRANDFORGE_GCS_BUCKET      - GCS storage
	// BRANDFORGE_AZURE_CONTAINER - Azure Blob storage
	// BRANDFORGE_LOCAL_STORAGE_ROOT - local fallback root (default: ./data)

Storage and provider selection happen once at startup and never change
for the life of the process.

# Thread Safety

All exported types in this package are safe for concurrent use. Product
processing runs on a bounded worker pool sized by BRANDFORGE_WORKER_LIMIT.
*/
package orchestrator
