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

package types

import (
	"fmt"
	"strings"
)

// AspectRatio identifies one of the canonical creative formats.
type AspectRatio string

const (
	RatioSquare    AspectRatio = "1:1"  // Instagram feed posts
	RatioPortrait  AspectRatio = "9:16" // Stories, TikTok
	RatioLandscape AspectRatio = "16:9" // YouTube, Facebook
)

// AllAspectRatios lists the formats every campaign produces, in output order.
var AllAspectRatios = []AspectRatio{RatioSquare, RatioPortrait, RatioLandscape}

// ratioDimensions maps each ratio to its canonical pixel dimensions.
var ratioDimensions = map[AspectRatio][2]int{
	RatioSquare:    {1080, 1080},
	RatioPortrait:  {1080, 1920},
	RatioLandscape: {1920, 1080},
}

// ParseAspectRatio validates a ratio string ("1:1", "9:16", "16:9").
func ParseAspectRatio(s string) (AspectRatio, error) {
	r := AspectRatio(strings.TrimSpace(s))
	if _, ok := ratioDimensions[r]; !ok {
		return "", fmt.Errorf("unknown aspect ratio: %q", s)
	}
	return r, nil
}

// Token returns the filesystem-safe label used in output paths ("1x1", "9x16", "16x9").
func (r AspectRatio) Token() string {
	return strings.ReplaceAll(string(r), ":", "x")
}

// Dimensions returns the canonical target width and height in pixels.
func (r AspectRatio) Dimensions() (width, height int) {
	d := ratioDimensions[r]
	return d[0], d[1]
}

func (r AspectRatio) String() string {
	return string(r)
}
