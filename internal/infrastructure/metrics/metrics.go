package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Report-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Conversation counters
	ReportsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "reports_created_total",
			Help:      "Total whistleblower reports filed",
		},
		[]string{"tenant_id"},
	)

	MessagesAddedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "messages_added_total",
			Help:      "Total conversation messages appended",
		},
		[]string{"sender"},
	)

	// Realtime counters
	ConnectionsOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "connections_opened_total",
			Help:      "Total realtime connections registered",
		},
	)

	ConnectionsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "connections_evicted_total",
			Help:      "Total registry entries evicted after a gone delivery",
		},
	)

	RelayDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "relay_deliveries_total",
			Help:      "Relay delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Attachment counters
	AttachmentUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whistlenet",
			Subsystem: "report_api",
			Name:      "attachment_uploads_total",
			Help:      "Total attachment uploads",
		},
		[]string{"content_type", "status"},
	)
)
