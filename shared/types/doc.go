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
Package types provides shared type definitions used across BrandForge components.

# Overview

This package contains common types shared between the orchestrator and the
storage backends. It provides a single source of truth for the canonical
creative formats.

# Aspect Ratios

Every campaign renders three formats per product:

	1:1   1080x1080  square (Instagram feed)
	9:16  1080x1920  portrait (Stories, TikTok)
	16:9  1920x1080  landscape (YouTube, Facebook)

Output path segments use the filesystem-safe token form:

	ratio, _ := types.ParseAspectRatio("9:16")
	ratio.Token()        // "9x16"
	w, h := ratio.Dimensions()

# Thread Safety

All types in this package are value types and are safe for concurrent use.
*/
package types
