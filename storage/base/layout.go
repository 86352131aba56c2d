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
	"path"
	"strings"

	"brandforge/platform/shared/types"
)

// Root folders shared by every backend. Cloud keys and local paths use the
// same relative layout so behavior stays backend-transparent.
const (
	AssetsRoot = "assets"
	OutputRoot = "output"
)

// AssetExtensions is the fixed probe order for asset lookup. When several
// formats coexist for one logical key, the first match wins.
var AssetExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// AssetKey returns the relative key for one asset candidate file, e.g.
// "assets/trail_jacket/trail_jacket.jpg".
func AssetKey(logicalKey, ext string) string {
	return path.Join(AssetsRoot, logicalKey, logicalKey+ext)
}

// AssetPrefix returns the folder prefix holding all candidates for a
// logical key.
func AssetPrefix(logicalKey string) string {
	return path.Join(AssetsRoot, logicalKey) + "/"
}

// UploadKey returns the relative key for a user-provided asset file. The
// file's stem becomes the logical key folder.
func UploadKey(logicalKey, filename string) string {
	return path.Join(AssetsRoot, logicalKey, filename)
}

// CreativeKey returns the deterministic relative key for a rendered
// creative: output/{campaign_id}/{product_slug}/{ratio_token}.jpg.
// Rerunning a campaign overwrites the same key.
func CreativeKey(campaignID, productName string, ratio types.AspectRatio) string {
	return path.Join(OutputRoot, campaignID, SlugifyProduct(productName), ratio.Token()+".jpg")
}

// OutputPrefix returns the folder prefix holding all creatives for a campaign.
func OutputPrefix(campaignID string) string {
	return path.Join(OutputRoot, campaignID) + "/"
}

// SlugifyProduct normalizes a product display name into a path segment.
func SlugifyProduct(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// HasAssetExtension reports whether a filename carries one of the probed
// image extensions.
func HasAssetExtension(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range AssetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
