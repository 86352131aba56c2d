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
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"brandforge/platform/config"
	"brandforge/platform/orchestrator/llm"
	"brandforge/platform/shared/logger"
	"brandforge/platform/shared/types"
	"brandforge/platform/storage/base"
)

// fakeStorage implements base.Backend in memory.
type fakeStorage struct {
	mu     sync.Mutex
	assets map[string][]byte // logical key -> bytes
	saved  map[string][]byte // location -> bytes
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{assets: make(map[string][]byte), saved: make(map[string][]byte)}
}

func (f *fakeStorage) EnsureLayout(ctx context.Context) error { return nil }

func (f *fakeStorage) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	return &base.HealthStatus{Healthy: true}, nil
}

func (f *fakeStorage) FindAsset(ctx context.Context, logicalKey string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.assets[logicalKey]
	if !ok {
		return nil, base.ErrNotFound
	}
	return data, nil
}

func (f *fakeStorage) SaveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error) {
	location := fmt.Sprintf("fake://%s/%s/%s.jpg", campaignID, productName, ratio.Token())
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[location] = data
	return location, nil
}

func (f *fakeStorage) SaveAsset(ctx context.Context, logicalKey, filename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[logicalKey] = data
	return "fake://assets/" + logicalKey + "/" + filename, nil
}

func (f *fakeStorage) ListOutputs(ctx context.Context, campaignID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for location := range f.saved {
		if strings.HasPrefix(location, "fake://"+campaignID+"/") {
			out = append(out, location)
		}
	}
	return out, nil
}

func (f *fakeStorage) Name() string    { return "fake" }
func (f *fakeStorage) Mode() base.Mode { return base.ModeLocal }

// fakeRenderer passes bytes through without real compositing.
type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(baseImage []byte, spec CreativeSpec) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]byte("rendered:"), baseImage...), nil
}

// fakeGenerator scripts per-call image generation behavior.
type fakeGenerator struct {
	mu    sync.Mutex
	fn    func(req llm.ImageRequest) ([]byte, error)
	calls int
}

func (g *fakeGenerator) Name() string { return "fake-gen" }

func (g *fakeGenerator) GenerateImage(ctx context.Context, req llm.ImageRequest) (*llm.ImageResponse, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	data, err := g.fn(req)
	if err != nil {
		return nil, err
	}
	return &llm.ImageResponse{Data: data, MIMEType: "image/png"}, nil
}

func testOrchestrator(storage base.Backend, provider llm.Provider, gen llm.ImageGenerator, renderer Renderer) *CampaignOrchestrator {
	log := logger.New("campaign-test")
	return NewCampaignOrchestrator(
		storage,
		NewComplianceEngine(provider, config.DefaultGuidelines(), log, time.Second),
		NewImageGenerator(gen, log, time.Second),
		renderer,
		log,
		2,
		time.Second,
	)
}

func testBrief() *CampaignBrief {
	return &CampaignBrief{
		CampaignID:      "fall-launch",
		TargetRegion:    "US",
		TargetAudience:  "outdoor enthusiasts",
		CampaignMessage: "Gear built to last.",
		Products: []ProductSpec{
			{Name: "Trail Jacket", Description: "Waterproof alpine shell"},
			{Name: "Summit Pack", Description: "35L climbing pack"},
		},
	}
}

func TestExecuteHappyPathWithUploadedAssets(t *testing.T) {
	storage := newFakeStorage()
	storage.assets["trail_jacket"] = []byte("jacket-img")
	storage.assets["summit_pack"] = []byte("pack-img")

	provider := &scriptedProvider{judgeFn: alwaysCompliant}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) { return []byte("generated"), nil }}

	orch := testOrchestrator(storage, provider, gen, &fakeRenderer{})
	result := orch.Execute(context.Background(), testBrief(), "r1", RunOptions{}, nil)

	if result.Status != CampaignCompleted {
		t.Fatalf("expected completed, got %s (errors: %v)", result.Status, result.Errors)
	}

	if result.CreativesOut != 6 {
		t.Errorf("expected 6 creatives, got %d", result.CreativesOut)
	}

	for _, product := range []string{"Trail Jacket", "Summit Pack"} {
		outputs := result.OutputPaths[product]
		if len(outputs) != 3 {
			t.Errorf("product %s: expected 3 outputs, got %v", product, outputs)
		}
		for _, token := range []string{"1x1", "9x16", "16x9"} {
			if outputs[token] == "" {
				t.Errorf("product %s missing ratio %s", product, token)
			}
		}
	}

	// uploaded assets mean no generation calls
	if gen.calls != 0 {
		t.Errorf("expected no generation calls, got %d", gen.calls)
	}

	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	if result.Message != "Gear built to last." {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestExecuteGeneratesWhenAssetMissing(t *testing.T) {
	storage := newFakeStorage()
	storage.assets["trail_jacket"] = []byte("jacket-img")
	// summit pack has no uploaded asset

	provider := &scriptedProvider{judgeFn: alwaysCompliant}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) { return []byte("generated"), nil }}

	orch := testOrchestrator(storage, provider, gen, &fakeRenderer{})
	result := orch.Execute(context.Background(), testBrief(), "r1", RunOptions{}, nil)

	if result.Status != CampaignCompleted {
		t.Fatalf("expected completed, got %s (errors: %v)", result.Status, result.Errors)
	}

	// one generation call per ratio for the asset-less product
	if gen.calls != 3 {
		t.Errorf("expected 3 generation calls, got %d", gen.calls)
	}

	if result.CreativesOut != 6 {
		t.Errorf("expected 6 creatives, got %d", result.CreativesOut)
	}
}

func TestExecutePartialRatioFailureIsNonFatal(t *testing.T) {
	storage := newFakeStorage()
	storage.assets["trail_jacket"] = []byte("jacket-img")

	provider := &scriptedProvider{judgeFn: alwaysCompliant}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) {
		if req.AspectRatio == types.RatioPortrait {
			return nil, errors.New("model overloaded")
		}
		return []byte("generated"), nil
	}}

	orch := testOrchestrator(storage, provider, gen, &fakeRenderer{})
	result := orch.Execute(context.Background(), testBrief(), "r1", RunOptions{}, nil)

	if result.Status != CampaignCompleted {
		t.Fatalf("partial failure must not fail the run, got %s", result.Status)
	}

	if result.CreativesOut != 5 {
		t.Errorf("expected 5 creatives, got %d", result.CreativesOut)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 recorded error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Summit Pack") {
		t.Errorf("error should name the product: %q", result.Errors[0])
	}

	if _, ok := result.OutputPaths["Summit Pack"]["9x16"]; ok {
		t.Error("failed ratio must not appear in outputs")
	}
	if result.OutputPaths["Summit Pack"]["1x1"] == "" {
		t.Error("surviving ratios must still appear in outputs")
	}
}

func TestExecuteValidationFailureMakesNoExternalCalls(t *testing.T) {
	provider := &scriptedProvider{judgeFn: alwaysCompliant}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) { return []byte("x"), nil }}

	brief := testBrief()
	brief.Products = brief.Products[:1]

	orch := testOrchestrator(newFakeStorage(), provider, gen, &fakeRenderer{})
	result := orch.Execute(context.Background(), brief, "r1", RunOptions{}, nil)

	if result.Status != CampaignFailed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "at least 2 products") {
		t.Errorf("expected product minimum error, got %v", result.Errors)
	}

	if provider.judgeCalls != 0 || provider.rewriteCalls != 0 || gen.calls != 0 {
		t.Errorf("validation failure must precede all external calls: judge=%d rewrite=%d gen=%d",
			provider.judgeCalls, provider.rewriteCalls, gen.calls)
	}
}

func TestExecuteComplianceRejectionFailsRun(t *testing.T) {
	provider := &scriptedProvider{
		judgeFn: alwaysRejected,
		rewriteFn: func(prompt string, call int) (string, error) {
			return `{"fixed_message": "still bad", "explanation": "tried"}`, nil
		},
	}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) { return []byte("x"), nil }}

	orch := testOrchestrator(newFakeStorage(), provider, gen, &fakeRenderer{})
	result := orch.Execute(context.Background(), testBrief(), "r1", RunOptions{}, nil)

	if result.Status != CampaignFailed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if len(result.FixAttempts) != MaxFixAttempts {
		t.Errorf("expected full attempt history on rejection, got %d", len(result.FixAttempts))
	}
	if gen.calls != 0 {
		t.Error("rejected campaigns must not generate imagery")
	}
}

func TestExecuteZeroCreativesFailsRun(t *testing.T) {
	provider := &scriptedProvider{judgeFn: alwaysCompliant}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) {
		return nil, errors.New("model down")
	}}

	orch := testOrchestrator(newFakeStorage(), provider, gen, &fakeRenderer{})
	result := orch.Execute(context.Background(), testBrief(), "r1", RunOptions{}, nil)

	if result.Status != CampaignFailed {
		t.Fatalf("expected failed when nothing was produced, got %s", result.Status)
	}

	var sawSummary bool
	for _, e := range result.Errors {
		if strings.Contains(e, "no creatives were produced") {
			sawSummary = true
		}
	}
	if !sawSummary {
		t.Errorf("expected zero-output summary error, got %v", result.Errors)
	}
}

func TestExecuteLocaleMessageFlowsToCreatives(t *testing.T) {
	storage := newFakeStorage()
	storage.assets["trail_jacket"] = []byte("jacket-img")
	storage.assets["summit_pack"] = []byte("pack-img")

	provider := &scriptedProvider{judgeFn: alwaysCompliant}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) { return []byte("x"), nil }}

	brief := testBrief()
	brief.Locales = []LocaleVariant{{Language: "es", Region: "ES", Message: "Equipo hecho para durar."}}

	orch := testOrchestrator(storage, provider, gen, &fakeRenderer{})
	result := orch.Execute(context.Background(), brief, "r1", RunOptions{Locale: "es_ES"}, nil)

	if result.Status != CampaignCompleted {
		t.Fatalf("expected completed, got %s (errors: %v)", result.Status, result.Errors)
	}
	if result.Message != "Equipo hecho para durar." {
		t.Errorf("expected locale message, got %q", result.Message)
	}
	if result.Locale != "es_ES" {
		t.Errorf("expected locale carried in result, got %q", result.Locale)
	}
}

func TestExecuteCancelledContextStopsDispatch(t *testing.T) {
	provider := &scriptedProvider{judgeFn: alwaysCompliant}
	gen := &fakeGenerator{fn: func(req llm.ImageRequest) ([]byte, error) { return []byte("x"), nil }}

	ctx, cancel := context.WithCancel(context.Background())

	orch := testOrchestrator(newFakeStorage(), provider, gen, &fakeRenderer{})

	// cancel after compliance by rejecting nothing but cancelling before
	// product dispatch via an already-cancelled context
	cancel()
	result := orch.Execute(ctx, testBrief(), "r1", RunOptions{}, nil)

	if result.Status != CampaignFailed {
		t.Fatalf("expected failed after cancellation, got %s", result.Status)
	}

	var sawCancel bool
	for _, e := range result.Errors {
		if strings.Contains(e, "cancelled") {
			sawCancel = true
		}
	}
	if !sawCancel {
		t.Errorf("expected cancellation recorded, got %v", result.Errors)
	}
}
