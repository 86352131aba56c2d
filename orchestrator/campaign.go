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
	"sync"
	"time"

	"brandforge/platform/shared/logger"
	"brandforge/platform/shared/types"
	"brandforge/platform/storage/base"
)

// CampaignStatus is the terminal outcome of a run.
type CampaignStatus string

const (
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
)

// Run stages, reported in order.
const (
	StageValidate        = "VALIDATE"
	StageCompliance      = "COMPLIANCE"
	StageProcessProducts = "PROCESS_PRODUCTS"
	StageFinalize        = "FINALIZE"
)

// RunOptions select the message variant for one run.
type RunOptions struct {
	Locale    string `json:"locale,omitempty"`     // e.g. "es_ES"
	ABVariant string `json:"ab_variant,omitempty"` // named A/B variant
}

// CampaignResult is the full outcome of a campaign run. Per-product and
// per-ratio failures are recorded in Errors without failing the run.
type CampaignResult struct {
	Status       CampaignStatus               `json:"status"`
	CampaignID   string                       `json:"campaign_id"`
	Locale       string                       `json:"locale,omitempty"`
	ABVariant    string                       `json:"ab_variant,omitempty"`
	Message      string                       `json:"message,omitempty"`
	OutputPaths  map[string]map[string]string `json:"output_paths,omitempty"` // product -> ratio token -> location
	Logs         []string                     `json:"logs,omitempty"`
	Errors       []string                     `json:"errors,omitempty"`
	FixAttempts  []FixAttempt                 `json:"fix_attempts,omitempty"`
	FailOpen     bool                         `json:"fail_open,omitempty"`
	CreativesOut int                          `json:"creatives_out"`
	Duration     time.Duration                `json:"duration"`
}

// RunReporter receives live progress from a campaign run.
type RunReporter interface {
	LogSink
	Stage(stage string, progress int)
}

type nopReporter struct{}

func (nopReporter) Emit(string)       {}
func (nopReporter) Stage(string, int) {}

// NopReporter discards all progress.
var NopReporter RunReporter = nopReporter{}

// recordingReporter copies every log line onto the CampaignResult while
// forwarding to the caller's reporter. Emit runs from worker goroutines.
type recordingReporter struct {
	mu     sync.Mutex
	next   RunReporter
	result *CampaignResult
}

func (r *recordingReporter) Emit(line string) {
	r.mu.Lock()
	r.result.Logs = append(r.result.Logs, line)
	r.mu.Unlock()
	r.next.Emit(line)
}

func (r *recordingReporter) Stage(stage string, progress int) {
	r.next.Stage(stage, progress)
}

// CampaignOrchestrator drives a brief through validation, compliance,
// product processing and finalization.
type CampaignOrchestrator struct {
	storage        base.Backend
	compliance     *ComplianceEngine
	images         *ImageGenerator
	renderer       Renderer
	log            *logger.Logger
	workerLimit    int
	storageTimeout time.Duration
}

// NewCampaignOrchestrator wires the run pipeline. workerLimit bounds
// concurrent product processing; values below 1 are raised to 1.
func NewCampaignOrchestrator(storage base.Backend, compliance *ComplianceEngine, images *ImageGenerator, renderer Renderer, log *logger.Logger, workerLimit int, storageTimeout time.Duration) *CampaignOrchestrator {
	if workerLimit < 1 {
		workerLimit = 1
	}
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &CampaignOrchestrator{
		storage:        storage,
		compliance:     compliance,
		images:         images,
		renderer:       renderer,
		log:            log,
		workerLimit:    workerLimit,
		storageTimeout: storageTimeout,
	}
}

// Execute runs the campaign end to end and always returns a result; the
// Status field carries the outcome. Validation and compliance rejection
// fail the run; individual product or ratio failures do not.
func (o *CampaignOrchestrator) Execute(ctx context.Context, brief *CampaignBrief, runID string, opts RunOptions, reporter RunReporter) *CampaignResult {
	if reporter == nil {
		reporter = NopReporter
	}

	started := time.Now()
	result := &CampaignResult{
		Status:      CampaignFailed,
		CampaignID:  brief.CampaignID,
		Locale:      opts.Locale,
		ABVariant:   opts.ABVariant,
		OutputPaths: make(map[string]map[string]string),
	}
	// every Emit also lands on the result so callers without a live
	// reporter still get the run narrative
	reporter = &recordingReporter{next: reporter, result: result}
	defer func() {
		result.Duration = time.Since(started)
		campaignsTotal.WithLabelValues(string(result.Status)).Inc()
		campaignDuration.Observe(result.Duration.Seconds())
	}()

	// VALIDATE: everything checked before the first external call.
	reporter.Stage(StageValidate, 0)
	if err := brief.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		reporter.Emit(fmt.Sprintf("validation failed: %v", err))
		o.log.Error(brief.CampaignID, runID, "brief validation failed", map[string]interface{}{"error": err.Error()})
		return result
	}
	reporter.Emit(fmt.Sprintf("brief validated: %d products", len(brief.Products)))
	reporter.Stage(StageValidate, 20)

	message := brief.ResolveMessage(opts.Locale, opts.ABVariant)
	if opts.Locale != "" || opts.ABVariant != "" {
		reporter.Emit(fmt.Sprintf("resolved campaign message for locale=%q variant=%q", opts.Locale, opts.ABVariant))
	}

	// COMPLIANCE: the whole run shares one approved message.
	reporter.Stage(StageCompliance, 20)
	compliant, err := o.compliance.ValidateAndFix(ctx, brief.CampaignID, runID, message, brief.TargetAudience, opts.Locale, reporter)
	if err != nil {
		var rejected *ComplianceRejectedError
		if errors.As(err, &rejected) {
			result.FixAttempts = rejected.Attempts
		}
		result.Errors = append(result.Errors, err.Error())
		reporter.Emit(fmt.Sprintf("campaign rejected: %v", err))
		o.log.Error(brief.CampaignID, runID, "compliance rejected campaign message", map[string]interface{}{"error": err.Error()})
		return result
	}
	result.Message = compliant.Message
	result.FixAttempts = compliant.Attempts
	result.FailOpen = compliant.FailOpen
	complianceFixAttempts.Observe(float64(len(compliant.Attempts)))
	if compliant.FailOpen {
		complianceFailOpenTotal.Inc()
	}
	reporter.Stage(StageCompliance, 50)

	// PROCESS_PRODUCTS: bounded worker pool, ratios sequential per product.
	total := len(brief.Products)
	var (
		wg   sync.WaitGroup
		sem  = make(chan struct{}, o.workerLimit)
		mu   sync.Mutex
		done int
	)

	for _, product := range brief.Products {
		if ctx.Err() != nil {
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Sprintf("run cancelled before product %q: %v", product.Name, ctx.Err()))
			mu.Unlock()
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(p ProductSpec) {
			defer wg.Done()
			defer func() { <-sem }()

			outputs, errs := o.processProduct(ctx, brief.CampaignID, runID, p, compliant.Message, opts.Locale, reporter)

			mu.Lock()
			if len(outputs) > 0 {
				result.OutputPaths[p.Name] = outputs
				result.CreativesOut += len(outputs)
			}
			result.Errors = append(result.Errors, errs...)
			done++
			progress := 50 + done*40/total
			mu.Unlock()
			reporter.Stage(StageProcessProducts, progress)
		}(product)
	}
	wg.Wait()

	// FINALIZE: a run that produced nothing is a failure even though every
	// individual error was non-fatal.
	reporter.Stage(StageFinalize, 95)
	if result.CreativesOut == 0 {
		result.Errors = append(result.Errors, "no creatives were produced")
		reporter.Emit("campaign failed: no creatives were produced")
		return result
	}

	result.Status = CampaignCompleted
	reporter.Emit(fmt.Sprintf("campaign completed: %d creatives across %d products", result.CreativesOut, len(result.OutputPaths)))
	reporter.Stage(StageFinalize, 100)
	o.log.InfoWithDuration(brief.CampaignID, runID, "campaign completed", float64(time.Since(started).Milliseconds()), map[string]interface{}{
		"creatives": result.CreativesOut,
		"errors":    len(result.Errors),
	})
	return result
}

// processProduct produces the three ratio creatives for one product. An
// uploaded asset serves as the base for every ratio; otherwise each ratio
// gets its own generated base. Failures are returned, never raised.
func (o *CampaignOrchestrator) processProduct(ctx context.Context, campaignID, runID string, product ProductSpec, message, locale string, reporter RunReporter) (map[string]string, []string) {
	outputs := make(map[string]string)
	var errs []string

	baseImage, found := o.findAsset(ctx, campaignID, runID, product, reporter)

	for _, ratio := range types.AllAspectRatios {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Sprintf("%s (%s): cancelled", product.Name, ratio))
			break
		}

		data := baseImage
		if !found {
			generated, err := o.images.Generate(ctx, campaignID, runID, product, ratio, locale)
			if err != nil {
				errs = append(errs, err.Error())
				reporter.Emit(fmt.Sprintf("skipping %s (%s): %v", product.Name, ratio, err))
				creativeFailuresTotal.WithLabelValues("generate").Inc()
				continue
			}
			data = generated
		}

		creative, err := o.renderer.Render(data, CreativeSpec{
			Ratio:       ratio,
			ProductName: product.Name,
			Message:     message,
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("render %s (%s): %v", product.Name, ratio, err))
			reporter.Emit(fmt.Sprintf("render failed for %s (%s): %v", product.Name, ratio, err))
			creativeFailuresTotal.WithLabelValues("render").Inc()
			continue
		}

		location, err := o.saveCreative(ctx, campaignID, product.Name, ratio, creative)
		if err != nil {
			errs = append(errs, fmt.Sprintf("save %s (%s): %v", product.Name, ratio, err))
			reporter.Emit(fmt.Sprintf("save failed for %s (%s): %v", product.Name, ratio, err))
			creativeFailuresTotal.WithLabelValues("save").Inc()
			continue
		}

		outputs[ratio.Token()] = location
		creativesTotal.WithLabelValues(string(ratio)).Inc()
		reporter.Emit(fmt.Sprintf("creative saved: %s (%s)", product.Name, ratio))
	}

	return outputs, errs
}

// findAsset looks up the uploaded base image for a product. Not-found is
// the normal trigger for generation; only unexpected storage errors are
// logged.
func (o *CampaignOrchestrator) findAsset(ctx context.Context, campaignID, runID string, product ProductSpec, reporter RunReporter) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, o.storageTimeout)
	defer cancel()

	data, err := o.storage.FindAsset(ctx, product.AssetKey())
	if err == nil {
		reporter.Emit(fmt.Sprintf("using uploaded asset for %s", product.Name))
		return data, true
	}

	if !errors.Is(err, base.ErrNotFound) {
		o.log.ErrorWithCause(campaignID, runID, "asset lookup failed, falling back to generation", err, map[string]interface{}{
			"product": product.Name,
		})
	}
	reporter.Emit(fmt.Sprintf("no uploaded asset for %s, generating imagery", product.Name))
	return nil, false
}

func (o *CampaignOrchestrator) saveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.storageTimeout)
	defer cancel()
	return o.storage.SaveCreative(ctx, campaignID, productName, ratio, data)
}
