package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "picking_sessions_started_total",
		Help: "Total number of picking sessions started",
	})

	SessionsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "picking_sessions_completed_total",
		Help: "Total number of picking sessions completed",
	})

	CommandsParsedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_commands_parsed_total",
		Help: "Total number of parsed voice commands",
	}, []string{"action"})

	CommandsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_commands_rejected_total",
		Help: "Total number of rejected voice commands",
	}, []string{"reason"})

	ItemsPickedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "items_picked_total",
		Help: "Total number of order items marked picked",
	})

	ItemsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "items_skipped_total",
		Help: "Total number of order items skipped",
	})

	AnnouncementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "announcements_total",
		Help: "Total number of announcements emitted",
	}, []string{"language"})

	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_operation_latency_seconds",
		Help:    "Latency of warehouse data gateway operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	GatewayFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_failures_total",
		Help: "Total number of failed gateway operations",
	}, []string{"operation"})

	CommandProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "command_processing_latency_seconds",
		Help:    "Latency of end-to-end command processing",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
