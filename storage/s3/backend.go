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

// Package s3 provides the Amazon S3 storage backend for BrandForge.
// It also works with S3-compatible services like MinIO, DigitalOcean
// Spaces, and Cloudflare R2 via a custom endpoint.
package s3

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"brandforge/platform/shared/types"
	"brandforge/platform/storage/base"
)

// Config contains configuration for the S3 backend.
type Config struct {
	Bucket          string // Required: bucket holding assets/ and output/
	Region          string // Optional: default us-east-1
	AccessKeyID     string // Optional: falls back to the default credential chain
	SecretAccessKey string
	SessionToken    string
	Endpoint        string // Optional: S3-compatible endpoint
	ForcePathStyle  bool
}

// Backend implements base.Backend on Amazon S3.
type Backend struct {
	client *awss3.Client
	bucket string
	region string
}

// Connect builds the S3 client and verifies connectivity with a HeadBucket
// probe. Any error here makes the storage router fall back to local mode.
func Connect(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, base.NewStorageError("s3", "Connect", "bucket is required", nil)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	// Use explicit credentials if provided, otherwise the default chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)
		optFns = append(optFns, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, base.NewStorageError("s3", "Connect", "failed to load AWS config", err)
	}

	s3Options := []func(*awss3.Options){}
	if cfg.Endpoint != "" {
		s3Options = append(s3Options, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Options = append(s3Options, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, s3Options...)

	// Connectivity probe
	_, err = client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, base.NewStorageError("s3", "Connect", "failed to verify S3 connectivity", err)
	}

	return &Backend{
		client: client,
		bucket: cfg.Bucket,
		region: region,
	}, nil
}

// Name returns the backend name
func (b *Backend) Name() string { return "s3" }

// Mode returns the storage mode
func (b *Backend) Mode() base.Mode { return base.ModeCloud }

// EnsureLayout is a no-op: S3 has no real folders, keys carry the layout.
func (b *Backend) EnsureLayout(ctx context.Context) error {
	return nil
}

// HealthCheck verifies S3 connectivity
func (b *Backend) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if b.client == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "S3 client not initialized",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	_, err := b.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	})
	latency := time.Since(start)

	if err != nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     err.Error(),
			Latency:   latency,
			Timestamp: time.Now(),
		}, nil
	}

	return &base.HealthStatus{
		Healthy: true,
		Latency: latency,
		Details: map[string]string{
			"bucket": b.bucket,
			"region": b.region,
		},
		Timestamp: time.Now(),
	}, nil
}

// FindAsset lists the logical key's folder and downloads the first object
// matching the fixed extension precedence.
func (b *Backend) FindAsset(ctx context.Context, logicalKey string) ([]byte, error) {
	prefix := base.AssetPrefix(logicalKey)

	output, err := b.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to list asset folder", err)
	}

	keys := make([]string, 0, len(output.Contents))
	for _, obj := range output.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	sort.Strings(keys)

	key := pickByExtension(keys)
	if key == "" {
		return nil, base.ErrNotFound
	}

	obj, err := b.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to get object: "+key, err)
	}
	defer func() {
		_ = obj.Body.Close()
	}()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, base.NewStorageError(b.Name(), "FindAsset", "failed to read object content", err)
	}

	return data, nil
}

// SaveCreative uploads the rendered creative, overwriting any prior object
// at the deterministic key.
func (b *Backend) SaveCreative(ctx context.Context, campaignID, productName string, ratio types.AspectRatio, data []byte) (string, error) {
	key := base.CreativeKey(campaignID, productName, ratio)

	_, err := b.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", base.NewStorageError(b.Name(), "SaveCreative", "failed to put object: "+key, err)
	}

	return b.location(key), nil
}

// SaveAsset uploads a user-provided source image under the assets root.
func (b *Backend) SaveAsset(ctx context.Context, logicalKey, filename string, data []byte) (string, error) {
	key := base.UploadKey(logicalKey, filename)

	_, err := b.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", base.NewStorageError(b.Name(), "SaveAsset", "failed to put object: "+key, err)
	}

	return b.location(key), nil
}

// ListOutputs returns the locations of every creative under the campaign's
// output prefix, in lexical order.
func (b *Backend) ListOutputs(ctx context.Context, campaignID string) ([]string, error) {
	prefix := base.OutputPrefix(campaignID)

	var locations []string
	var continuation *string
	for {
		output, err := b.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
			Bucket:            aws.String(b.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, base.NewStorageError(b.Name(), "ListOutputs", "failed to list outputs", err)
		}
		for _, obj := range output.Contents {
			locations = append(locations, b.location(aws.ToString(obj.Key)))
		}
		if output.NextContinuationToken == nil {
			break
		}
		continuation = output.NextContinuationToken
	}

	sort.Strings(locations)
	return locations, nil
}

// location formats a durable location string for display and listing.
func (b *Backend) location(key string) string {
	return "s3://" + b.bucket + "/" + key
}

// pickByExtension applies the fixed extension precedence to a sorted key
// list and returns the winning key, or "" when nothing matches.
func pickByExtension(keys []string) string {
	for _, ext := range base.AssetExtensions {
		for _, key := range keys {
			if strings.HasSuffix(strings.ToLower(key), ext) {
				return key
			}
		}
	}
	return ""
}

// Verify Backend implements base.Backend
var _ base.Backend = (*Backend)(nil)
