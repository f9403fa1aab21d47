package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	VoiceCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicebook_voice_commands_total",
		Help: "Voice commands resolved, by intent and resolution source",
	}, []string{"intent", "source"})

	VoiceResolutionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voicebook_voice_resolution_seconds",
		Help:    "Time spent resolving an utterance into a command",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	FallbackFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicebook_fallback_failures_total",
		Help: "Remote classification calls that degraded to unknown",
	}, []string{"reason"})

	DispatchedCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicebook_dispatched_commands_total",
		Help: "Commands delivered to a screen, or dropped because the screen changed",
	}, []string{"view", "outcome"})

	ClassificationCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicebook_classification_cache_total",
		Help: "Remote classification cache lookups, by result",
	}, []string{"result"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voicebook_active_sessions",
		Help: "Signed-in voice sessions",
	})

	// Métricas de infraestrutura
	StoreOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voicebook_store_operation_seconds",
		Help:    "Document store operation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	TransactionRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voicebook_store_transaction_retries_total",
		Help: "Optimistic transactions retried after a conflict",
	})

	MediaUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicebook_media_uploads_total",
		Help: "Media uploads by resource type and status",
	}, []string{"resource_type", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicebook_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voicebook_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)
