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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	campaignsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandforge_campaigns_total",
		Help: "Campaign runs by final status.",
	}, []string{"status"})

	campaignDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brandforge_campaign_duration_seconds",
		Help:    "End-to-end campaign run duration.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	creativesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandforge_creatives_total",
		Help: "Creatives produced by aspect ratio.",
	}, []string{"ratio"})

	creativeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandforge_creative_failures_total",
		Help: "Per-product/ratio creative failures by stage.",
	}, []string{"stage"})

	complianceFixAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brandforge_compliance_fix_attempts",
		Help:    "Rewrite attempts consumed per accepted campaign message.",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	})

	complianceFailOpenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brandforge_compliance_fail_open_total",
		Help: "Messages accepted unverified because a compliance call errored.",
	})

	llmCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brandforge_llm_call_duration_seconds",
		Help:    "Latency of model calls by kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)
