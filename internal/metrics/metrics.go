package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropit_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dropit_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropit_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "success", "invalid", "limited"
	)

	MessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropit_messages_posted_total",
			Help: "Total chat messages posted",
		},
		[]string{"type"},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropit_uploads_total",
			Help: "File uploads by result",
		},
		[]string{"result"}, // "ok", "rejected", "failed"
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dropit_upload_bytes_total",
			Help: "Bytes accepted by the upload endpoint",
		},
	)

	// StorageFallbacks counts remote backend failures that were served by
	// the local fallback instead.
	StorageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropit_storage_fallbacks_total",
			Help: "Remote storage failures served by the fallback backend",
		},
		[]string{"backend", "op"},
	)

	ArchivedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dropit_archived_messages_total",
			Help: "Messages handled by the archive worker",
		},
		[]string{"result"},
	)
)
