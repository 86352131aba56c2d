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
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"brandforge/platform/config"
	"brandforge/platform/orchestrator/llm"
	"brandforge/platform/shared/logger"
)

// MaxFixAttempts is the hard cap on rewrite attempts. The initial check is
// attempt 0; rewrites are counted 1..MaxFixAttempts.
const MaxFixAttempts = 5

// CheckKind distinguishes the two compliance policies.
type CheckKind string

const (
	CheckLegal CheckKind = "legal"
	CheckBrand CheckKind = "brand"
)

// Verdict is the structured result of one policy evaluation.
type Verdict struct {
	Kind      CheckKind `json:"kind"`
	Compliant bool      `json:"compliant"`
	Reason    string    `json:"reason"`
}

// FixAttempt records one rewrite and the verdicts of its re-check.
type FixAttempt struct {
	Attempt     int       `json:"attempt"` // 1-based
	Original    string    `json:"original"`
	Candidate   string    `json:"candidate"`
	Explanation string    `json:"explanation"`
	Verdicts    []Verdict `json:"verdicts,omitempty"`
}

// CompliantMessage is the accepted outcome of the validate-and-fix loop.
type CompliantMessage struct {
	Message  string       `json:"message"`
	Attempts []FixAttempt `json:"attempts,omitempty"`
	FailOpen bool         `json:"fail_open,omitempty"` // accepted because a check call errored
}

// ComplianceRejectedError means the fix budget is exhausted. It is fatal to
// the whole campaign run.
type ComplianceRejectedError struct {
	Attempts   []FixAttempt
	LastReason string
}

func (e *ComplianceRejectedError) Error() string {
	return fmt.Sprintf("compliance rejected after %d fix attempts: %s", len(e.Attempts), e.LastReason)
}

// ComplianceEngine composes the policy checks and the rewriter into a
// bounded retry loop. It is stateless across calls and safe for concurrent
// use.
type ComplianceEngine struct {
	provider   llm.Provider
	guidelines *config.BrandGuidelines
	log        *logger.Logger
	timeout    time.Duration
}

// NewComplianceEngine builds an engine on the given text provider.
func NewComplianceEngine(provider llm.Provider, guidelines *config.BrandGuidelines, log *logger.Logger, timeout time.Duration) *ComplianceEngine {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ComplianceEngine{
		provider:   provider,
		guidelines: guidelines,
		log:        log,
		timeout:    timeout,
	}
}

// ValidateAndFix runs the bounded validate-and-rewrite state machine.
//
// Both policy checks run concurrently on every pass. When either check call
// itself fails, the loop terminates accepted with the message active at the
// time of the error: availability wins over strict enforcement, and the
// anomaly is logged instead of consuming the fix budget.
func (e *ComplianceEngine) ValidateAndFix(ctx context.Context, campaignID, runID, message, audience, locale string, sink LogSink) (*CompliantMessage, error) {
	current := message
	var attempts []FixAttempt

	for rewrites := 0; ; {
		verdicts, err := e.checkAll(ctx, current, audience, locale)
		if len(attempts) > 0 {
			attempts[len(attempts)-1].Verdicts = verdicts
		}

		if err != nil {
			e.log.ErrorWithCause(campaignID, runID, "compliance check unavailable, accepting message unverified", err, map[string]interface{}{
				"rewrites": rewrites,
			})
			sink.Emit(fmt.Sprintf("compliance check unavailable (%v), accepting current message", err))
			return &CompliantMessage{Message: current, Attempts: attempts, FailOpen: true}, nil
		}

		failing := failingVerdicts(verdicts)
		if len(failing) == 0 {
			if rewrites == 0 {
				sink.Emit("compliance checks passed")
			} else {
				sink.Emit(fmt.Sprintf("compliance achieved after %d fix attempt(s)", rewrites))
			}
			return &CompliantMessage{Message: current, Attempts: attempts}, nil
		}

		lastReason := combineReasons(failing)
		sink.Emit(fmt.Sprintf("compliance check failed: %s", lastReason))

		if rewrites == MaxFixAttempts {
			return nil, &ComplianceRejectedError{Attempts: attempts, LastReason: lastReason}
		}

		rewrites++
		sink.Emit(fmt.Sprintf("rewrite attempt %d/%d", rewrites, MaxFixAttempts))

		candidate, explanation, err := e.rewrite(ctx, current, audience, lastReason, locale)
		if err != nil {
			e.log.ErrorWithCause(campaignID, runID, "rewrite unavailable, accepting message unverified", err, map[string]interface{}{
				"rewrites": rewrites,
			})
			sink.Emit(fmt.Sprintf("rewrite unavailable (%v), accepting current message", err))
			return &CompliantMessage{Message: current, Attempts: attempts, FailOpen: true}, nil
		}

		attempt := FixAttempt{
			Attempt:     rewrites,
			Original:    current,
			Candidate:   candidate,
			Explanation: explanation,
		}
		attempts = append(attempts, attempt)

		if candidate != current {
			sink.Emit(fmt.Sprintf("rewritten message: %q (%s)", candidate, explanation))
		}
		current = candidate
	}
}

// checkAll runs the legal and brand checks concurrently and returns both
// verdicts in a fixed order. A transport or parse-level failure of either
// call is returned as an error and triggers the caller's fail-open path.
func (e *ComplianceEngine) checkAll(ctx context.Context, message, audience, locale string) ([]Verdict, error) {
	var (
		wg       sync.WaitGroup
		legal    Verdict
		brand    Verdict
		legalErr error
		brandErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		legal, legalErr = e.checkLegal(ctx, message, locale)
	}()
	go func() {
		defer wg.Done()
		brand, brandErr = e.checkBrand(ctx, message, audience, locale)
	}()
	wg.Wait()

	if legalErr != nil {
		return nil, fmt.Errorf("legal check: %w", legalErr)
	}
	if brandErr != nil {
		return nil, fmt.Errorf("brand check: %w", brandErr)
	}

	return []Verdict{legal, brand}, nil
}

// checkLegal evaluates the message against the legal policy.
func (e *ComplianceEngine) checkLegal(ctx context.Context, message, locale string) (Verdict, error) {
	prompt := fmt.Sprintf(`You are a legal compliance checker for advertising content.%s

Review this campaign message for legal issues:
%q

Check for:
- Discriminatory language (e.g., targeting by race, gender, religion)
- Harmful or violent terms
- False claims or misleading statements
- Scammy or deceptive language

Respond ONLY with valid JSON in this exact format:
{"compliant": true, "reason": "explanation"}

or

{"compliant": false, "reason": "explanation"}`, languageNote(locale), message)

	return e.judge(ctx, CheckLegal, prompt)
}

// checkBrand evaluates the message against the brand policy.
func (e *ComplianceEngine) checkBrand(ctx context.Context, message, audience, locale string) (Verdict, error) {
	prompt := fmt.Sprintf(`You are a brand compliance checker.%s

Brand Guidelines:
%s

Campaign Message: %q
Target Audience: %q

Check if the message:
1. Aligns with the brand's environmental and social mission
2. Avoids prohibited language (%s)
3. Focuses on quality, durability, and responsibility
4. Uses authentic voice (not overly salesy or aggressive)

Respond ONLY with valid JSON in this exact format:
{"compliant": true, "reason": "explanation"}

or

{"compliant": false, "reason": "explanation"}`,
		languageNote(locale),
		e.guidelinesText(),
		message,
		audience,
		strings.Join(e.guidelines.ForbiddenBrandVoice, ", "))

	return e.judge(ctx, CheckBrand, prompt)
}

// judge runs one policy prompt and decodes the verdict JSON. Responses
// that carry no parseable verdict are treated as compliant with a note;
// transport failures propagate so the loop can fail open.
func (e *ComplianceEngine) judge(ctx context.Context, kind CheckKind, prompt string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	llmCallDuration.WithLabelValues(string(kind)).Observe(time.Since(started).Seconds())
	if err != nil {
		return Verdict{}, err
	}

	var parsed struct {
		Compliant bool   `json:"compliant"`
		Reason    string `json:"reason"`
	}
	raw, ok := extractJSON(resp.Content)
	if !ok || json.Unmarshal([]byte(raw), &parsed) != nil {
		return Verdict{
			Kind:      kind,
			Compliant: true,
			Reason:    "check completed (response format issue)",
		}, nil
	}

	reason := parsed.Reason
	if reason == "" {
		reason = "no reason provided"
	}

	return Verdict{Kind: kind, Compliant: parsed.Compliant, Reason: reason}, nil
}

// rewrite asks the provider for a compliant replacement message. A
// response without a usable fixed_message keeps the original so the loop
// can retry with the remaining budget.
func (e *ComplianceEngine) rewrite(ctx context.Context, message, audience, reason, locale string) (candidate, explanation string, err error) {
	note := ""
	if language := localeLanguageName(locale); language != "" {
		note = fmt.Sprintf("\nIMPORTANT: The fixed message MUST be written in %s, the same language as the original message.", language)
	}

	prompt := fmt.Sprintf(`You are a compliance expert for advertising campaigns.%s

ORIGINAL MESSAGE: %q
TARGET AUDIENCE: %q

COMPLIANCE ISSUE:
%s

BRAND GUIDELINES:
%s

YOUR TASK:
Rewrite the campaign message to be fully compliant with both legal requirements and the brand guidelines.

REQUIREMENTS:
1. Make claims specific and substantiated (avoid vague claims)
2. Remove any unverifiable or misleading statements
3. Maintain an authentic brand voice
4. Keep the message concise (under 150 characters)
5. Focus on quality, durability, and responsibility
6. Avoid prohibited language and overly aggressive sales tactics
7. Write in the SAME language as the original message

Respond ONLY with valid JSON in this exact format:
{"fixed_message": "your compliant message here", "explanation": "brief explanation of changes"}`,
		note, message, audience, reason, e.guidelinesText())

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
	llmCallDuration.WithLabelValues("rewrite").Observe(time.Since(started).Seconds())
	if err != nil {
		return "", "", err
	}

	var parsed struct {
		FixedMessage string `json:"fixed_message"`
		Explanation  string `json:"explanation"`
	}
	raw, ok := extractJSON(resp.Content)
	if !ok || json.Unmarshal([]byte(raw), &parsed) != nil {
		return message, "rewrite response carried no valid JSON", nil
	}

	if strings.TrimSpace(parsed.FixedMessage) == "" {
		return message, "rewrite returned an empty message", nil
	}

	return parsed.FixedMessage, parsed.Explanation, nil
}

// guidelinesText formats the brand guidelines for a prompt.
func (e *ComplianceEngine) guidelinesText() string {
	var b strings.Builder

	b.WriteString("Core Values:\n")
	for name, value := range e.guidelines.CoreValues {
		fmt.Fprintf(&b, "- %s: %s\n", name, value)
	}

	b.WriteString("\nForbidden Terms:\n")
	b.WriteString(strings.Join(e.guidelines.ForbiddenBrandVoice, ", "))

	b.WriteString("\n\nBrand Voice Principles:\n")
	for _, p := range e.guidelines.VoicePrinciples {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	return b.String()
}

// languageNote adds the locale context used by both check prompts.
func languageNote(locale string) string {
	language := localeLanguageName(locale)
	if language == "" {
		return ""
	}
	return fmt.Sprintf("\nNOTE: This message is in %s. Evaluate compliance based on the content meaning, regardless of the language.", language)
}

// extractJSON pulls the outermost JSON object out of a model response that
// may wrap it in prose or code fences.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func failingVerdicts(verdicts []Verdict) []Verdict {
	var failing []Verdict
	for _, v := range verdicts {
		if !v.Compliant {
			failing = append(failing, v)
		}
	}
	return failing
}

func combineReasons(failing []Verdict) string {
	parts := make([]string, 0, len(failing))
	for _, v := range failing {
		parts = append(parts, fmt.Sprintf("%s issue: %s", v.Kind, v.Reason))
	}
	return strings.Join(parts, "; ")
}
