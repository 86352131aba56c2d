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
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"brandforge/platform/orchestrator/llm"
	"brandforge/platform/shared/logger"
	"brandforge/platform/storage/base"
)

// maxUploadBytes caps asset uploads and brief bodies.
const maxUploadBytes = 20 << 20

// APIHandler exposes the campaign pipeline over HTTP.
type APIHandler struct {
	orchestrator *CampaignOrchestrator
	storage      base.Backend
	provider     llm.Provider
	store        *StatusStore
	log          *logger.Logger
}

// NewAPIHandler wires the HTTP surface.
func NewAPIHandler(orchestrator *CampaignOrchestrator, storage base.Backend, provider llm.Provider, store *StatusStore, log *logger.Logger) *APIHandler {
	return &APIHandler{
		orchestrator: orchestrator,
		storage:      storage,
		provider:     provider,
		store:        store,
		log:          log,
	}
}

// RegisterRoutes registers all campaign API routes.
func (h *APIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/campaigns/generate", h.generateCampaign).Methods("POST")
	r.HandleFunc("/api/v1/campaigns/parse-brief", h.parseBrief).Methods("POST")
	r.HandleFunc("/api/v1/campaigns/{run_id}/status", h.runStatus).Methods("GET")
	r.HandleFunc("/api/v1/campaigns/{campaign_id}/outputs", h.campaignOutputs).Methods("GET")
	r.HandleFunc("/api/v1/assets/{key}", h.uploadAsset).Methods("POST")
	r.HandleFunc("/api/v1/health", h.health).Methods("GET")
}

// GenerateRequest is the JSON body of the generate endpoint. Brief may be
// given inline as structured JSON or as a YAML document string.
type GenerateRequest struct {
	Brief     *CampaignBrief `json:"brief,omitempty"`
	BriefYAML string         `json:"brief_yaml,omitempty"`
	Locale    string         `json:"locale,omitempty"`
	ABVariant string         `json:"ab_variant,omitempty"`
}

// generateCampaign starts an asynchronous campaign run.
func (h *APIHandler) generateCampaign(w http.ResponseWriter, r *http.Request) {
	brief, opts, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	if err := brief.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_BRIEF", err.Error())
		return
	}

	runID := h.store.Create(brief.CampaignID)
	reporter := &storeReporter{store: h.store, runID: runID}

	go func() {
		// the run outlives the HTTP request deliberately
		result := h.orchestrator.Execute(context.Background(), brief, runID, opts, reporter)
		h.store.Finish(runID, result)
	}()

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id":      runID,
		"campaign_id": brief.CampaignID,
		"status":      string(StatusPending),
	})
}

// parseBrief validates a brief without running it and reports the
// available locales and A/B variants.
func (h *APIHandler) parseBrief(w http.ResponseWriter, r *http.Request) {
	brief, _, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	resp := map[string]interface{}{
		"brief":   brief,
		"locales": brief.AvailableLocales(),
	}
	resp["variants"] = brief.AvailableVariants()

	if err := brief.Validate(); err != nil {
		resp["valid"] = false
		resp["error"] = err.Error()
		h.writeJSON(w, http.StatusOK, resp)
		return
	}

	resp["valid"] = true
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) runStatus(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["run_id"]

	record, ok := h.store.Get(runID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "RUN_NOT_FOUND", fmt.Sprintf("no run with id %q", runID))
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

func (h *APIHandler) campaignOutputs(w http.ResponseWriter, r *http.Request) {
	campaignID := mux.Vars(r)["campaign_id"]

	outputs, err := h.storage.ListOutputs(r.Context(), campaignID)
	if err != nil {
		h.log.ErrorWithCause("", "", "failed to list outputs", err, map[string]interface{}{"campaign_id": campaignID})
		h.writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to list campaign outputs")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign_id": campaignID,
		"outputs":     outputs,
		"count":       len(outputs),
	})
}

// uploadAsset stores a product source image under its logical key. The
// filename query parameter carries the extension; image bytes are the
// request body.
func (h *APIHandler) uploadAsset(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if strings.ContainsAny(key, `/\.`) {
		h.writeError(w, http.StatusBadRequest, "INVALID_KEY", "asset key must be a single path segment")
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_FILENAME", "filename query parameter is required")
		return
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !base.HasAssetExtension(filename) {
		h.writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", fmt.Sprintf("unsupported image extension %q", ext))
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "READ_ERROR", "failed to read request body")
		return
	}
	if len(data) == 0 {
		h.writeError(w, http.StatusBadRequest, "EMPTY_BODY", "asset body is empty")
		return
	}
	if len(data) > maxUploadBytes {
		h.writeError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", "asset exceeds upload limit")
		return
	}

	location, err := h.storage.SaveAsset(r.Context(), key, filename, data)
	if err != nil {
		h.log.ErrorWithCause("", "", "asset upload failed", err, map[string]interface{}{"key": key})
		h.writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to store asset")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{
		"key":      key,
		"location": location,
	})
}

func (h *APIHandler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	storageStatus, err := h.storage.HealthCheck(ctx)
	storageHealthy := err == nil && storageStatus != nil && storageStatus.Healthy

	providerHealthy := h.provider != nil && h.provider.IsHealthy()

	status := http.StatusOK
	overall := "healthy"
	if !storageHealthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	} else if !providerHealthy {
		overall = "degraded"
	}

	resp := map[string]interface{}{
		"status":           overall,
		"storage_backend":  h.storage.Name(),
		"storage_mode":     h.storage.Mode(),
		"storage_healthy":  storageHealthy,
		"provider_healthy": providerHealthy,
		"timestamp":        time.Now().UTC(),
	}
	if h.provider != nil {
		resp["provider"] = h.provider.Name()
	}

	h.writeJSON(w, status, resp)
}

// decodeGenerateRequest accepts either a JSON GenerateRequest or a raw
// YAML brief body, keyed on Content-Type.
func (h *APIHandler) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*CampaignBrief, RunOptions, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "READ_ERROR", "failed to read request body")
		return nil, RunOptions{}, false
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "yaml") {
		brief, err := ParseBrief(body)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_YAML", err.Error())
			return nil, RunOptions{}, false
		}
		return brief, RunOptions{
			Locale:    r.URL.Query().Get("locale"),
			ABVariant: r.URL.Query().Get("ab_variant"),
		}, true
	}

	var req GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return nil, RunOptions{}, false
	}

	brief := req.Brief
	if brief == nil && req.BriefYAML != "" {
		brief, err = ParseBrief([]byte(req.BriefYAML))
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_YAML", err.Error())
			return nil, RunOptions{}, false
		}
	}
	if brief == nil {
		h.writeError(w, http.StatusBadRequest, "MISSING_BRIEF", "request must carry a brief or brief_yaml")
		return nil, RunOptions{}, false
	}

	return brief, RunOptions{Locale: req.Locale, ABVariant: req.ABVariant}, true
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// APIError is the uniform error envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, APIError{Code: code, Message: message})
}

// storeReporter bridges run progress into the status store.
type storeReporter struct {
	store *StatusStore
	runID string
}

func (r *storeReporter) Emit(line string) {
	r.store.AppendLog(r.runID, line)
}

func (r *storeReporter) Stage(stage string, progress int) {
	r.store.SetProgress(r.runID, stage, progress)
}
