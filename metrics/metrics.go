package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// status: accepted/invalid/error
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questionnaire_submissions_total",
			Help: "Total number of questionnaire submissions",
		},
		[]string{"status"},
	)

	// source: cache/database/seeded/error
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questionnaire_catalog_requests_total",
			Help: "Total number of question catalog requests by source",
		},
		[]string{"source"},
	)

	SubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "questionnaire_submit_duration_seconds",
			Help:    "Time spent validating and storing a submission",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "questionnaire_event_publish_failures_total",
			Help: "Total number of events that could not be published",
		},
	)

	ExportJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questionnaire_export_jobs_total",
			Help: "Total number of finished export jobs",
		},
		[]string{"format", "status"},
	)
)

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
