// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_dispatches_total",
			Help: "Total number of voice requests dispatched, by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_classifications_total",
			Help: "Total number of intent classifications, by provenance",
		},
		[]string{"source"},
	)

	ClassifierFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_classifier_fallbacks_total",
			Help: "Total number of AI classification attempts that fell back to the rule-based path",
		},
		[]string{"reason"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "voice_dispatch_duration_seconds",
			Help: "Duration of transcript dispatch in seconds",
		},
		[]string{"intent"},
	)

	TranscriptionRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_transcription_retries_total",
			Help: "Total number of transcription retries due to backend overload",
		},
	)
)
