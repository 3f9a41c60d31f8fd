// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics provides Prometheus metrics for generation runs and the
// delivery server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run results used as label values.
const (
	ResultSuccess = "success"
	ResultSkipped = "skipped"
	ResultFailure = "failure"
)

var (
	generateRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deeplinks_generate_runs_total",
		Help: "Generation runs, by result (success, skipped, failure).",
	}, []string{"result"})

	generateFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deeplinks_generate_failures_total",
		Help: "Failed generation runs, by stage.",
	}, []string{"stage"})

	eventsListed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "deeplinks_events",
		Help: "Events in the last generated artifacts, by state (live, upcoming).",
	}, []string{"state"})

	programmesWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deeplinks_xmltv_programmes",
		Help: "Programme entries in the last generated guide.",
	})

	lastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deeplinks_generate_last_success_timestamp_seconds",
		Help: "Unix time of the last successful generation run.",
	})

	generateDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "deeplinks_generate_duration_seconds",
		Help:    "Wall time of a generation run.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})
)

// RecordGenerate records the outcome of one run.
func RecordGenerate(result string, seconds float64) {
	generateRunsTotal.WithLabelValues(result).Inc()
	generateDurationSeconds.Observe(seconds)
}

// IncGenerateFailure counts a failed run at stage (query, build, write).
func IncGenerateFailure(stage string) {
	generateFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordArtifacts sets the gauges describing the artifacts just written.
func RecordArtifacts(live, upcoming, programmes int, unixTime float64) {
	eventsListed.WithLabelValues("live").Set(float64(live))
	eventsListed.WithLabelValues("upcoming").Set(float64(upcoming))
	programmesWritten.Set(float64(programmes))
	lastSuccessTimestamp.Set(unixTime)
}
