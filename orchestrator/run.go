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
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"brandforge/platform/config"
	"brandforge/platform/shared/logger"
	"brandforge/platform/storage/router"
)

// Run boots the creative automation service: resolve secrets, pick the
// storage backend and llm provider once, then serve until interrupted.
func Run() error {
	log := logger.New("orchestrator")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SecretsARN != "" {
		resolver, err := config.NewSecretsResolver(ctx, cfg.AWSRegion, 0)
		if err != nil {
			log.ErrorWithCause("", "", "secrets manager unavailable, using environment only", err, nil)
		} else if err := resolver.ApplySecrets(ctx, cfg); err != nil {
			log.ErrorWithCause("", "", "secret resolution failed, using environment only", err, nil)
		}
	}

	guidelines, err := config.LoadGuidelines(cfg.GuidelinesFile)
	if err != nil {
		return fmt.Errorf("load brand guidelines: %w", err)
	}

	storage, err := router.Select(ctx, cfg.StorageOptions(), log)
	if err != nil {
		return fmt.Errorf("select storage backend: %w", err)
	}

	provider, imageProvider, err := SelectProviders(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("select llm provider: %w", err)
	}

	renderer, err := NewCreativeEngine()
	if err != nil {
		return fmt.Errorf("creative engine: %w", err)
	}

	orchestrator := NewCampaignOrchestrator(
		storage,
		NewComplianceEngine(provider, guidelines, log, cfg.LLMTimeout),
		NewImageGenerator(imageProvider, log, cfg.ImageTimeout),
		renderer,
		log,
		cfg.WorkerLimit,
		cfg.StorageTimeout,
	)

	store := NewStatusStore()
	api := NewAPIHandler(orchestrator, storage, provider, store, log)

	r := mux.NewRouter()
	api.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      c.Handler(r),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("", "", "orchestrator listening", map[string]interface{}{
			"port":    cfg.Port,
			"storage": storage.Name(),
			"mode":    storage.Mode(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("", "", "shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
