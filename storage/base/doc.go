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
Package base defines the storage backend interface and the shared path layout
used by every BrandForge storage implementation.

# Overview

All backends expose the same two core operations the campaign pipeline needs:
asset lookup (FindAsset) and creative persistence (SaveCreative), plus
supporting operations for uploads, listing, and health. The relative layout is
identical across backends:

	assets/{logical_key}/{logical_key}.{jpg|jpeg|png|webp}
	output/{campaign_id}/{product_slug}/{1x1|9x16|16x9}.jpg

# Error Semantics

A missing asset is ErrNotFound, never a *StorageError — callers branch on it
with errors.Is to trigger image generation. Everything else (auth, quota,
I/O) is wrapped in *StorageError carrying the backend name, the operation,
and the cause.

# Extension Precedence

FindAsset probes .jpg, .jpeg, .png, .webp in that fixed order and returns the
first match, giving a deterministic tie-break when multiple formats coexist.
*/
package base
