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
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of one campaign run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// RunRecord is the observable state of a campaign run.
type RunRecord struct {
	RunID      string          `json:"run_id"`
	CampaignID string          `json:"campaign_id"`
	Status     RunStatus       `json:"status"`
	Progress   int             `json:"progress"` // 0-100
	Stage      string          `json:"stage,omitempty"`
	Logs       []string        `json:"logs,omitempty"`
	Result     *CampaignResult `json:"result,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// StatusStore tracks campaign runs in memory. Records live for the
// process lifetime; restarts lose history deliberately.
type StatusStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

func NewStatusStore() *StatusStore {
	return &StatusStore{runs: make(map[string]*RunRecord)}
}

// Create registers a new pending run and returns its ID.
func (s *StatusStore) Create(campaignID string) string {
	runID := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = &RunRecord{
		RunID:      runID,
		CampaignID: campaignID,
		Status:     StatusPending,
		StartedAt:  time.Now().UTC(),
	}
	return runID
}

// Get returns a copy of the record so callers never see concurrent edits.
func (s *StatusStore) Get(runID string) (RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[runID]
	if !ok {
		return RunRecord{}, false
	}

	out := *rec
	out.Logs = append([]string(nil), rec.Logs...)
	return out, true
}

// SetProgress advances the run's stage and progress percentage.
func (s *StatusStore) SetProgress(runID, stage string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return
	}
	rec.Status = StatusRunning
	rec.Stage = stage
	if progress > rec.Progress {
		rec.Progress = progress
	}
}

// AppendLog records one human-readable progress line.
func (s *StatusStore) AppendLog(runID, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.runs[runID]; ok {
		rec.Logs = append(rec.Logs, line)
	}
}

// Finish records the terminal result.
func (s *StatusStore) Finish(runID string, result *CampaignResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return
	}

	now := time.Now().UTC()
	rec.FinishedAt = &now
	rec.Result = result
	rec.Progress = 100
	if result != nil && result.Status == CampaignCompleted {
		rec.Status = StatusCompleted
	} else {
		rec.Status = StatusFailed
	}
}
