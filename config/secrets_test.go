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
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type mockSecretsClient struct {
	secret string
	calls  int
}

func (m *mockSecretsClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.calls++
	return &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(m.secret),
	}, nil
}

func newTestResolver(secret string) (*SecretsResolver, *mockSecretsClient) {
	client := &mockSecretsClient{secret: secret}
	return &SecretsResolver{
		client: client,
		cache:  make(map[string]*secretCacheEntry),
		ttl:    time.Minute,
	}, client
}

func TestGetSecretParsesJSON(t *testing.T) {
	resolver, _ := newTestResolver(`{"gemini_api_key": "abc123"}`)

	values, err := resolver.GetSecret(context.Background(), "arn:aws:secretsmanager:us-east-1:123:secret:brandforge")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if values["gemini_api_key"] != "abc123" {
		t.Errorf("unexpected value: %s", values["gemini_api_key"])
	}
}

func TestGetSecretPlainString(t *testing.T) {
	resolver, _ := newTestResolver("just-a-key")

	values, err := resolver.GetSecret(context.Background(), "arn:plain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if values["value"] != "just-a-key" {
		t.Errorf("expected plain secret under value key, got %v", values)
	}
}

func TestGetSecretCaches(t *testing.T) {
	resolver, client := newTestResolver(`{"gemini_api_key": "abc"}`)
	ctx := context.Background()

	if _, err := resolver.GetSecret(ctx, "arn:cached"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := resolver.GetSecret(ctx, "arn:cached"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.calls != 1 {
		t.Errorf("expected 1 API call, got %d", client.calls)
	}
}

func TestApplySecretsEnvWins(t *testing.T) {
	resolver, _ := newTestResolver(`{"gemini_api_key": "from-secret", "azure_storage_key": "secret-key"}`)

	cfg := &AppConfig{
		SecretsARN:   "arn:brandforge",
		GeminiAPIKey: "from-env",
	}

	if err := resolver.ApplySecrets(context.Background(), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GeminiAPIKey != "from-env" {
		t.Errorf("environment value should win, got %s", cfg.GeminiAPIKey)
	}

	if cfg.AzureAccountKey != "secret-key" {
		t.Errorf("empty field should be filled from secret, got %s", cfg.AzureAccountKey)
	}
}

func TestApplySecretsNoARN(t *testing.T) {
	resolver, client := newTestResolver(`{}`)

	if err := resolver.ApplySecrets(context.Background(), &AppConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.calls != 0 {
		t.Error("expected no API call without an ARN")
	}
}

func TestMaskARN(t *testing.T) {
	if got := maskARN("short"); got != "***" {
		t.Errorf("expected short ARNs fully masked, got %s", got)
	}

	masked := maskARN("arn:aws:secretsmanager:us-east-1:123:secret:brandforge")
	if masked != "arn:aws:secr***" {
		t.Errorf("unexpected mask: %s", masked)
	}
}
