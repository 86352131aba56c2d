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
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretsAPI is the slice of the Secrets Manager client used here, kept
// small for test injection.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsResolver fetches JSON secrets from AWS Secrets Manager with a
// short TTL cache so repeated lookups do not hammer the API.
type SecretsResolver struct {
	client secretsAPI
	cache  map[string]*secretCacheEntry
	mu     sync.RWMutex
	ttl    time.Duration
}

type secretCacheEntry struct {
	value     map[string]string
	expiresAt time.Time
}

// NewSecretsResolver creates a resolver using the default AWS credential
// chain in the given region.
func NewSecretsResolver(ctx context.Context, region string, ttl time.Duration) (*SecretsResolver, error) {
	cfgOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &SecretsResolver{
		client: secretsmanager.NewFromConfig(awsCfg),
		cache:  make(map[string]*secretCacheEntry),
		ttl:    ttl,
	}, nil
}

// GetSecret retrieves a secret and parses it as a JSON object of string
// values. A plain-string secret is returned under the "value" key.
func (r *SecretsResolver) GetSecret(ctx context.Context, secretARN string) (map[string]string, error) {
	r.mu.RLock()
	entry, exists := r.cache[secretARN]
	r.mu.RUnlock()

	if exists && time.Now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	result, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretARN),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", maskARN(secretARN), err)
	}

	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", maskARN(secretARN))
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &values); err != nil {
		values = map[string]string{"value": *result.SecretString}
	}

	r.mu.Lock()
	r.cache[secretARN] = &secretCacheEntry{
		value:     values,
		expiresAt: time.Now().Add(r.ttl),
	}
	r.mu.Unlock()

	return values, nil
}

// ApplySecrets fills credentials that are empty in cfg from the secret
// named by BRANDFORGE_SECRETS_ARN. Environment variables always win.
func (r *SecretsResolver) ApplySecrets(ctx context.Context, cfg *AppConfig) error {
	if cfg.SecretsARN == "" {
		return nil
	}

	values, err := r.GetSecret(ctx, cfg.SecretsARN)
	if err != nil {
		return err
	}

	fillIfEmpty(&cfg.GeminiAPIKey, values["gemini_api_key"])
	fillIfEmpty(&cfg.GCSCredentialsJSON, values["gcs_credentials_json"])
	fillIfEmpty(&cfg.AzureAccountKey, values["azure_storage_key"])
	fillIfEmpty(&cfg.AzureConnectionString, values["azure_connection_string"])

	return nil
}

func fillIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

// maskARN hides the secret name portion of an ARN in log and error output.
func maskARN(arn string) string {
	if len(arn) <= 12 {
		return "***"
	}
	return arn[:12] + "***"
}
