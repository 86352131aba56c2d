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
	"strconv"
	"time"

	"brandforge/platform/storage/azureblob"
	"brandforge/platform/storage/gcs"
	"brandforge/platform/storage/router"
	"brandforge/platform/storage/s3"
)

// AppConfig holds the process-wide configuration loaded once at startup.
// Application settings use the BRANDFORGE_ prefix; cloud credentials keep
// their canonical provider names so standard tooling picks them up too.
type AppConfig struct {
	Port             int
	LocalStorageRoot string
	WorkerLimit      int

	LLMTimeout     time.Duration
	ImageTimeout   time.Duration
	StorageTimeout time.Duration

	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string

	BedrockModelID string
	AWSRegion      string

	S3Bucket         string
	S3Endpoint       string
	S3ForcePathStyle bool

	GCSBucket          string
	GCSCredentialsFile string
	GCSCredentialsJSON string

	AzureContainer        string
	AzureAccountName      string
	AzureAccountKey       string
	AzureConnectionString string

	GuidelinesFile string
	SecretsARN     string
}

// Load reads configuration from environment variables, applying defaults
// for everything optional.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		LocalStorageRoot: getEnvOrDefault("BRANDFORGE_LOCAL_STORAGE_ROOT", "./data"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: getEnvOrDefault("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		BedrockModelID:   os.Getenv("BEDROCK_MODEL_ID"),
		AWSRegion:        getEnvOrDefault("AWS_REGION", "us-east-1"),

		S3Bucket:   os.Getenv("BRANDFORGE_S3_BUCKET"),
		S3Endpoint: os.Getenv("BRANDFORGE_S3_ENDPOINT"),

		GCSBucket:          os.Getenv("BRANDFORGE_GCS_BUCKET"),
		GCSCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		GCSCredentialsJSON: os.Getenv("BRANDFORGE_GCS_CREDENTIALS_JSON"),

		AzureContainer:        os.Getenv("BRANDFORGE_AZURE_CONTAINER"),
		AzureAccountName:      os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),

		GuidelinesFile: os.Getenv("BRANDFORGE_GUIDELINES_FILE"),
		SecretsARN:     os.Getenv("BRANDFORGE_SECRETS_ARN"),
	}

	var err error
	if cfg.Port, err = getIntEnv("BRANDFORGE_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.WorkerLimit, err = getIntEnv("BRANDFORGE_WORKER_LIMIT", 3); err != nil {
		return nil, err
	}
	if cfg.WorkerLimit < 1 {
		return nil, fmt.Errorf("BRANDFORGE_WORKER_LIMIT must be at least 1, got %d", cfg.WorkerLimit)
	}

	if cfg.LLMTimeout, err = getDurationEnv("BRANDFORGE_LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ImageTimeout, err = getDurationEnv("BRANDFORGE_IMAGE_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.StorageTimeout, err = getDurationEnv("BRANDFORGE_STORAGE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.S3ForcePathStyle = os.Getenv("BRANDFORGE_S3_FORCE_PATH_STYLE") == "true"

	return cfg, nil
}

// StorageOptions translates the loaded configuration into storage router
// candidates. A backend is a candidate only when its minimum configuration
// is present; the router still probes connectivity before committing.
func (c *AppConfig) StorageOptions() router.Options {
	opts := router.Options{
		LocalRoot: c.LocalStorageRoot,
	}

	if c.S3Bucket != "" {
		opts.S3 = &s3.Config{
			Bucket:          c.S3Bucket,
			Region:          c.AWSRegion,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Endpoint:        c.S3Endpoint,
			ForcePathStyle:  c.S3ForcePathStyle,
		}
	}

	if c.GCSBucket != "" {
		opts.GCS = &gcs.Config{
			Bucket:          c.GCSBucket,
			CredentialsFile: c.GCSCredentialsFile,
			CredentialsJSON: c.GCSCredentialsJSON,
		}
	}

	if c.AzureContainer != "" && (c.AzureAccountName != "" || c.AzureConnectionString != "") {
		opts.AzureBlob = &azureblob.Config{
			Container:        c.AzureContainer,
			AccountName:      c.AzureAccountName,
			AccountKey:       c.AzureAccountKey,
			ConnectionString: c.AzureConnectionString,
		}
	}

	return opts
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}
