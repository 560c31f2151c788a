package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifieds_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classifieds_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	EntriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifieds_entries_created_total",
		Help: "Entries created.",
	})

	QuotaRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifieds_quota_rejections_total",
		Help: "Requests rejected by plan limits.",
	}, []string{"limit"})

	EntriesExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifieds_entries_expired_total",
		Help: "Entries marked expired by the sweep.",
	})

	EntriesPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifieds_entries_purged_total",
		Help: "Expired entries deleted after the retention window.",
	})

	ImagesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifieds_images_uploaded_total",
		Help: "Images stored.",
	})
)
