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

package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

// TestNew tests logger initialization
func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		component      string
		instanceID     string
		expectedComp   string
		expectedInstID string
	}{
		{
			name:           "with instance ID set",
			component:      "compliance-engine",
			instanceID:     "instance-123",
			expectedComp:   "compliance-engine",
			expectedInstID: "instance-123",
		},
		{
			name:           "without instance ID",
			component:      "orchestrator",
			instanceID:     "",
			expectedComp:   "orchestrator",
			expectedInstID: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Set environment variable for test
			if tt.instanceID != "" {
				if err := os.Setenv("INSTANCE_ID", tt.instanceID); err != nil {
					t.Fatalf("Failed to set INSTANCE_ID: %v", err)
				}
				defer func() {
					if err := os.Unsetenv("INSTANCE_ID"); err != nil {
						t.Errorf("Failed to unset INSTANCE_ID: %v", err)
					}
				}()
			} else {
				if err := os.Unsetenv("INSTANCE_ID"); err != nil {
					t.Fatalf("Failed to unset INSTANCE_ID: %v", err)
				}
			}

			logger := New(tt.component)

			if logger.Component != tt.expectedComp {
				t.Errorf("Expected component %s, got %s", tt.expectedComp, logger.Component)
			}

			if logger.InstanceID != tt.expectedInstID {
				t.Errorf("Expected instance ID %s, got %s", tt.expectedInstID, logger.InstanceID)
			}

			if logger.Container == "" {
				t.Error("Expected container to be set from hostname")
			}
		})
	}
}

// TestLogLevels tests all log level methods
func TestLogLevels(t *testing.T) {
	tests := []struct {
		name       string
		logFunc    func(*Logger, string, string, string, map[string]interface{})
		level      LogLevel
		message    string
		campaignID string
		runID      string
		fields     map[string]interface{}
	}{
		{
			name:       "Info log",
			logFunc:    (*Logger).Info,
			level:      INFO,
			message:    "Campaign brief validated",
			campaignID: "holiday_2025",
			runID:      "run-456",
			fields:     map[string]interface{}{"products": 2},
		},
		{
			name:       "Error log",
			logFunc:    (*Logger).Error,
			level:      ERROR,
			message:    "Creative upload failed",
			campaignID: "holiday_2025",
			runID:      "run-012",
			fields:     map[string]interface{}{"ratio": "9:16"},
		},
		{
			name:       "Warn log",
			logFunc:    (*Logger).Warn,
			level:      WARN,
			message:    "Cloud storage unavailable, using local mode",
			campaignID: "",
			runID:      "",
			fields:     nil,
		},
		{
			name:       "Debug log",
			logFunc:    (*Logger).Debug,
			level:      DEBUG,
			message:    "Asset lookup",
			campaignID: "spring_sale",
			runID:      "run-uvw",
			fields:     map[string]interface{}{"asset": "trail_jacket"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Capture log output
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			logger := New("test-component")
			tt.logFunc(logger, tt.campaignID, tt.runID, tt.message, tt.fields)

			output := buf.String()

			// Parse JSON output (skip timestamp prefix)
			var entry LogEntry
			jsonStart := strings.Index(output, "{")
			if jsonStart == -1 {
				t.Fatal("No JSON found in log output")
			}
			jsonStr := strings.TrimSpace(output[jsonStart:])

			if err := json.Unmarshal([]byte(jsonStr), &entry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v\nOutput: %s", err, output)
			}

			if entry.Level != tt.level {
				t.Errorf("Expected level %s, got %s", tt.level, entry.Level)
			}

			if entry.Message != tt.message {
				t.Errorf("Expected message '%s', got '%s'", tt.message, entry.Message)
			}

			if entry.CampaignID != tt.campaignID {
				t.Errorf("Expected campaign ID '%s', got '%s'", tt.campaignID, entry.CampaignID)
			}

			if entry.RunID != tt.runID {
				t.Errorf("Expected run ID '%s', got '%s'", tt.runID, entry.RunID)
			}

			if entry.Component != "test-component" {
				t.Errorf("Expected component 'test-component', got '%s'", entry.Component)
			}

			// Verify timestamp format
			if _, err := time.Parse(time.RFC3339Nano, entry.Timestamp); err != nil {
				t.Errorf("Invalid timestamp format: %s", entry.Timestamp)
			}

			// Verify fields if present
			if tt.fields != nil {
				for key, expectedValue := range tt.fields {
					actualValue, ok := entry.Fields[key]
					if !ok {
						t.Errorf("Expected field '%s' not found", key)
						continue
					}
					// JSON unmarshals numbers as float64
					switch expected := expectedValue.(type) {
					case int:
						if actual, ok := actualValue.(float64); !ok || int(actual) != expected {
							t.Errorf("Field '%s': expected %v, got %v", key, expectedValue, actualValue)
						}
					default:
						if actualValue != expectedValue {
							t.Errorf("Field '%s': expected %v, got %v", key, expectedValue, actualValue)
						}
					}
				}
			}
		})
	}
}

// TestInfoWithDuration tests the InfoWithDuration helper method
func TestInfoWithDuration(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := New("test-component")
	logger.InfoWithDuration("holiday_2025", "run-456", "Creative rendered", 123.45, map[string]interface{}{
		"ratio": "1:1",
	})

	output := buf.String()
	jsonStart := strings.Index(output, "{")
	jsonStr := strings.TrimSpace(output[jsonStart:])

	var entry LogEntry
	if err := json.Unmarshal([]byte(jsonStr), &entry); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	durationMS, ok := entry.Fields["duration_ms"]
	if !ok {
		t.Error("Expected duration_ms field not found")
	}
	if durationMS != 123.45 {
		t.Errorf("Expected duration_ms 123.45, got %v", durationMS)
	}

	ratio, ok := entry.Fields["ratio"]
	if !ok {
		t.Error("Expected ratio field not found")
	}
	if ratio != "1:1" {
		t.Errorf("Expected ratio '1:1', got %v", ratio)
	}

	if entry.Level != INFO {
		t.Errorf("Expected INFO level, got %s", entry.Level)
	}
}

// TestErrorWithCause tests the ErrorWithCause helper method
func TestErrorWithCause(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		fields         map[string]interface{}
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:           "with error",
			err:            &testError{msg: "bucket unreachable"},
			fields:         map[string]interface{}{"backend": "s3"},
			expectError:    true,
			expectedErrMsg: "bucket unreachable",
		},
		{
			name:        "without error",
			err:         nil,
			fields:      nil,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			logger := New("test-component")
			logger.ErrorWithCause("holiday_2025", "run-456", "Storage write failed", tt.err, tt.fields)

			output := buf.String()
			jsonStart := strings.Index(output, "{")
			jsonStr := strings.TrimSpace(output[jsonStart:])

			var entry LogEntry
			if err := json.Unmarshal([]byte(jsonStr), &entry); err != nil {
				t.Fatalf("Failed to parse JSON: %v", err)
			}

			if tt.expectError {
				errMsg, ok := entry.Fields["error"]
				if !ok {
					t.Error("Expected error field not found")
				}
				if errMsg != tt.expectedErrMsg {
					t.Errorf("Expected error message '%s', got '%v'", tt.expectedErrMsg, errMsg)
				}
			} else if _, ok := entry.Fields["error"]; ok {
				t.Error("Did not expect error field")
			}

			if entry.Level != ERROR {
				t.Errorf("Expected ERROR level, got %s", entry.Level)
			}

			if tt.fields != nil {
				for key, expectedValue := range tt.fields {
					if actualValue, ok := entry.Fields[key]; !ok || actualValue != expectedValue {
						t.Errorf("Field '%s': expected %v, got %v", key, expectedValue, actualValue)
					}
				}
			}
		})
	}
}

// TestJSONMarshalError tests behavior when JSON marshaling fails
func TestJSONMarshalError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := New("test-component")

	// Channels cannot be marshaled to JSON
	ch := make(chan int)
	logger.Info("holiday_2025", "run-456", "Test message", map[string]interface{}{
		"channel": ch,
	})

	output := buf.String()

	if !strings.Contains(output, "Failed to marshal log entry") {
		t.Error("Expected error message about JSON marshaling failure")
	}
}

// Helper type for testing errors
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

// BenchmarkLog benchmarks the logging performance
func BenchmarkLog(b *testing.B) {
	logger := New("benchmark-component")
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	fields := map[string]interface{}{
		"product":  "trail_jacket",
		"ratio":    "9:16",
		"duration": 45.67,
		"success":  true,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("holiday_2025", "run-456", "Processing product", fields)
	}
}
