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

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BrandGuidelines drives both compliance checks: legal terms are hard
// failures, brand-voice terms and principles feed the voice judgment.
type BrandGuidelines struct {
	CoreValues          map[string]string `yaml:"core_values"`
	ForbiddenLegal      []string          `yaml:"forbidden_legal"`
	ForbiddenBrandVoice []string          `yaml:"forbidden_brand_voice"`
	VoicePrinciples     []string          `yaml:"voice_principles"`
}

// DefaultGuidelines returns the built-in outdoor-brand guideline set used
// when no guidelines file is configured.
func DefaultGuidelines() *BrandGuidelines {
	return &BrandGuidelines{
		CoreValues: map[string]string{
			"quality":          "Build the best product, provide the best service, and constantly improve everything we do. The best product is useful, versatile, long-lasting, repairable, and recyclable.",
			"integrity":        "Examine our practices openly and honestly, learn from our mistakes, and meet our commitments.",
			"environmentalism": "Protect our home planet. We work to reduce our impact, share solutions, and embrace regenerative practices.",
			"justice":          "Be just, equitable, and antiracist as a company and in our community.",
			"independence":     "Do it our way. Our success lies in developing new ways to do things.",
		},
		ForbiddenLegal: []string{
			"discriminatory language",
			"harmful or violent terms",
			"hate speech or offensive content",
		},
		ForbiddenBrandVoice: []string{
			"get rich quick",
			"guaranteed",
			"miracle cure",
			"100% effective",
			"buy now",
			"limited time only",
			"act now",
			"don't miss out",
			"scam or false claims",
			"overly aggressive sales language",
		},
		VoicePrinciples: []string{
			"Focus on quality, durability, and environmental mission",
			"Authentic and transparent communication",
			"Avoid hyperbolic or exaggerated claims",
			"Emphasize repair, reuse, and responsibility",
			"Support social and environmental justice",
		},
	}
}

// LoadGuidelines reads a YAML guidelines file, falling back to the default
// set when path is empty. Missing sections in the file keep their defaults.
func LoadGuidelines(path string) (*BrandGuidelines, error) {
	guidelines := DefaultGuidelines()
	if path == "" {
		return guidelines, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guidelines file %s: %w", path, err)
	}

	var loaded BrandGuidelines
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse guidelines file %s: %w", path, err)
	}

	if len(loaded.CoreValues) > 0 {
		guidelines.CoreValues = loaded.CoreValues
	}
	if len(loaded.ForbiddenLegal) > 0 {
		guidelines.ForbiddenLegal = loaded.ForbiddenLegal
	}
	if len(loaded.ForbiddenBrandVoice) > 0 {
		guidelines.ForbiddenBrandVoice = loaded.ForbiddenBrandVoice
	}
	if len(loaded.VoicePrinciples) > 0 {
		guidelines.VoicePrinciples = loaded.VoicePrinciples
	}

	return guidelines, nil
}
