// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fileRequestsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deeplinks_file_requests_denied_total",
		Help: "Artifact requests denied, by reason.",
	}, []string{"reason"})

	fileRequestsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deeplinks_file_requests_served_total",
		Help: "Artifact requests served, by file.",
	}, []string{"file"})

	artifactUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deeplinks_artifact_updates_total",
		Help: "Artifact replacements observed by the file watcher, by file.",
	}, []string{"file"})
)

// IncFileDenied counts a rejected artifact request.
func IncFileDenied(reason string) { fileRequestsDenied.WithLabelValues(reason).Inc() }

// IncFileServed counts a served artifact. file must be one of the artifact
// names to keep cardinality bounded.
func IncFileServed(file string) { fileRequestsServed.WithLabelValues(file).Inc() }

// IncArtifactUpdate counts a watcher-observed replacement of file.
func IncArtifactUpdate(file string) { artifactUpdates.WithLabelValues(file).Inc() }
