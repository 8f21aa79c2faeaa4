package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filebox_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filebox_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metadata store metrics
var (
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_store_operations_total",
			Help: "Total number of metadata store operations",
		},
		[]string{"collection", "operation"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filebox_store_operation_duration_seconds",
			Help:    "Metadata store operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"collection", "operation"},
	)

	StoreCorruptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_store_corruptions_total",
			Help: "Number of times a corrupt collection file was reset to empty",
		},
		[]string{"collection"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_thumbnail_generations_total",
			Help: "Total number of thumbnail generation attempts",
		},
		[]string{"kind", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filebox_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)
)

// Upload and streaming metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_uploads_total",
			Help: "Total number of uploaded files",
		},
		[]string{"kind"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filebox_upload_bytes_total",
			Help: "Total bytes accepted by uploads",
		},
	)

	StreamedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_streamed_bytes_total",
			Help: "Total bytes served by the range streaming engine",
		},
		[]string{"mode"}, // "full" or "partial"
	)

	StreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_stream_requests_total",
			Help: "Total range streaming requests by outcome",
		},
		[]string{"status"},
	)
)

// StoreOperationTimer records one store operation and returns a timer that
// observes its duration when stopped.
func StoreOperationTimer(collection, operation string) *prometheus.Timer {
	StoreOperationsTotal.WithLabelValues(collection, operation).Inc()
	return prometheus.NewTimer(StoreOperationDuration.WithLabelValues(collection, operation))
}
