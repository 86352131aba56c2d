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
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinProducts is the domain minimum: a campaign advertises a product line,
// not a single item.
const MinProducts = 2

// CampaignBrief is the declarative campaign description. It is immutable
// once parsed; the orchestrator reads it and never writes back.
type CampaignBrief struct {
	CampaignID      string          `yaml:"campaign_id" json:"campaign_id"`
	TargetRegion    string          `yaml:"target_region" json:"target_region"`
	TargetAudience  string          `yaml:"target_audience" json:"target_audience"`
	CampaignMessage string          `yaml:"campaign_message" json:"campaign_message"`
	Products        []ProductSpec   `yaml:"products" json:"products"`
	Locales         []LocaleVariant `yaml:"locales,omitempty" json:"locales,omitempty"`
	ABTesting       *ABTestConfig   `yaml:"ab_testing,omitempty" json:"ab_testing,omitempty"`
}

// ProductSpec describes one product in the campaign.
type ProductSpec struct {
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description" json:"description"`
	AssetFilename string `yaml:"asset_filename,omitempty" json:"asset_filename,omitempty"`
}

// LocaleVariant overrides the campaign message for one language/region.
type LocaleVariant struct {
	Language string `yaml:"language" json:"language"`
	Region   string `yaml:"region" json:"region"`
	Message  string `yaml:"message" json:"message"`
}

// ABTestConfig holds named alternative messages for experimentation.
type ABTestConfig struct {
	Enabled  bool      `yaml:"enabled" json:"enabled"`
	Variants []Variant `yaml:"variants" json:"variants"`
}

// Variant is one named A/B alternative.
type Variant struct {
	Name    string `yaml:"name" json:"name"`
	Message string `yaml:"message" json:"message"`
}

// ParseBrief decodes a YAML campaign brief.
func ParseBrief(data []byte) (*CampaignBrief, error) {
	var brief CampaignBrief
	if err := yaml.Unmarshal(data, &brief); err != nil {
		return nil, fmt.Errorf("failed to parse campaign brief: %w", err)
	}
	return &brief, nil
}

// ValidationError reports a malformed or incomplete brief. It is fatal and
// raised before any external call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid campaign brief: " + e.Reason
}

// Validate checks required fields and the product minimum.
func (b *CampaignBrief) Validate() error {
	switch {
	case b.CampaignID == "":
		return &ValidationError{Reason: "missing required field: campaign_id"}
	case b.TargetRegion == "":
		return &ValidationError{Reason: "missing required field: target_region"}
	case b.TargetAudience == "":
		return &ValidationError{Reason: "missing required field: target_audience"}
	case b.CampaignMessage == "":
		return &ValidationError{Reason: "missing required field: campaign_message"}
	}

	// campaign_id becomes a storage path segment
	if strings.ContainsAny(b.CampaignID, `/\:*?"<>|`) || strings.Contains(b.CampaignID, "..") {
		return &ValidationError{Reason: fmt.Sprintf("campaign_id %q is not path safe", b.CampaignID)}
	}

	if len(b.Products) < MinProducts {
		return &ValidationError{
			Reason: fmt.Sprintf("at least %d products required, found %d", MinProducts, len(b.Products)),
		}
	}

	for i, p := range b.Products {
		if p.Name == "" {
			return &ValidationError{Reason: fmt.Sprintf("product %d has no name", i+1)}
		}
	}

	return nil
}

// ResolveMessage computes the active campaign message once per run.
// Precedence: selected A/B variant, then selected locale, then the brief
// default. Unknown selectors fall through to the next level.
func (b *CampaignBrief) ResolveMessage(locale, abVariant string) string {
	if abVariant != "" && b.ABTesting != nil && b.ABTesting.Enabled {
		for _, v := range b.ABTesting.Variants {
			if v.Name == abVariant && v.Message != "" {
				return v.Message
			}
		}
	}

	if locale != "" {
		language := locale
		if idx := strings.Index(locale, "_"); idx > 0 {
			language = locale[:idx]
		}
		for _, lv := range b.Locales {
			code := lv.Language + "_" + lv.Region
			if code == locale || lv.Language == language {
				if lv.Message != "" {
					return lv.Message
				}
			}
		}
	}

	return b.CampaignMessage
}

// AssetKey returns the product's logical asset key, deriving one from the
// product name when the brief omits asset_filename.
func (p *ProductSpec) AssetKey() string {
	if p.AssetFilename != "" {
		return p.AssetFilename
	}
	return strings.ReplaceAll(strings.ToLower(p.Name), " ", "_")
}

// AvailableLocales lists the locale codes the brief defines.
func (b *CampaignBrief) AvailableLocales() []string {
	locales := make([]string, 0, len(b.Locales))
	for _, lv := range b.Locales {
		locales = append(locales, lv.Language+"_"+lv.Region)
	}
	return locales
}

// AvailableVariants lists the A/B variant names, or nil when A/B testing
// is disabled.
func (b *CampaignBrief) AvailableVariants() []string {
	if b.ABTesting == nil || !b.ABTesting.Enabled {
		return nil
	}
	variants := make([]string, 0, len(b.ABTesting.Variants))
	for _, v := range b.ABTesting.Variants {
		if v.Name != "" {
			variants = append(variants, v.Name)
		}
	}
	return variants
}

// localeLanguageName maps a locale code to the language name used in
// prompts, so judgments and rewrites happen in the campaign's language.
func localeLanguageName(locale string) string {
	if locale == "" {
		return ""
	}

	code := strings.ToLower(locale)
	if idx := strings.Index(code, "_"); idx > 0 {
		code = code[:idx]
	}

	names := map[string]string{
		"en": "English",
		"es": "Spanish",
		"fr": "French",
		"de": "German",
		"it": "Italian",
		"pt": "Portuguese",
		"ja": "Japanese",
		"zh": "Chinese",
		"ko": "Korean",
		"ar": "Arabic",
	}
	if name, ok := names[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}
