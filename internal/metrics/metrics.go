// Package metrics exposes the engine's Prometheus collectors. Everything
// registers on the default registry via promauto; the API server serves it
// at /metrics through promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values recorded by the engine.
const (
	OutcomeDone     = "done"
	OutcomeError    = "error"
	OutcomeAdmitted = "admitted"
	OutcomeRefused  = "refused"

	StepWorkflow = "workflow"
	StepArticle  = "article"
	StepImage    = "image"
	StepPublish  = "publish"
)

var (
	// ItemsProcessed counts items reaching a terminal state.
	ItemsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claw_items_processed_total",
		Help: "Total number of queue items that reached a terminal state",
	}, []string{"outcome"})

	// CreditsCharged counts credits consumed by completed items.
	CreditsCharged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claw_credits_charged_total",
		Help: "Total number of credits charged for completed items",
	})

	// Batches counts batch admission decisions.
	Batches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claw_batches_total",
		Help: "Total number of batch runs by admission outcome",
	}, []string{"outcome"})

	// PipelineStepDuration tracks per-step latency against the writer service.
	PipelineStepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "claw_pipeline_step_duration_seconds",
		Help:    "Duration of generation pipeline steps",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"step"})

	// ActiveTasks gauges currently running background executors.
	ActiveTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "claw_active_tasks",
		Help: "Number of background processing tasks currently running",
	})
)
