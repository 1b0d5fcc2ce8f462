// Package metrics
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
	PagesScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_pages_scored_total",
			Help: "Total number of page scoring operations.",
		},
	)
	AuditsRun = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_audits_total",
			Help: "Total number of audit runs, labeled by terminal status.",
		},
		[]string{"status"},
	)
	NotFoundLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_404_logged_total",
			Help: "Total number of 404 hits recorded.",
		},
	)
	IndexNowSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_indexnow_submissions_total",
			Help: "Total number of indexing submissions, labeled by outcome.",
		},
		[]string{"outcome"},
	)
	LinkSuggestionScans = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seo_link_suggestion_scan_seconds",
			Help:    "Duration of the pairwise link suggestion scan in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(PagesScored)
	prometheus.MustRegister(AuditsRun)
	prometheus.MustRegister(NotFoundLogged)
	prometheus.MustRegister(IndexNowSubmissions)
	prometheus.MustRegister(LinkSuggestionScans)
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
