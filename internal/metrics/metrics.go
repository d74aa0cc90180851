// Package metrics exposes Prometheus collectors for the scraper client.
package metrics

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the collectors.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	scraperJobsSubmittedTotal *prometheus.CounterVec
	scraperJobsFinishedTotal  *prometheus.CounterVec
	scraperPollAttemptsTotal  prometheus.Counter
	scraperCheckpointIndex    prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scraperJobsSubmittedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_jobs_submitted_total",
				Help: "Total number of job submissions, labeled by result.",
			},
			[]string{"result"},
		)

		scraperJobsFinishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_jobs_finished_total",
				Help: "Total number of jobs that stopped polling, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		scraperPollAttemptsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_poll_attempts_total",
				Help: "Total number of job status requests.",
			},
		)

		scraperCheckpointIndex = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "scraper_checkpoint_index",
				Help: "Index of the next URL to process.",
			},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSubmit counts a job submission by result.
func ObserveSubmit(result string) {
	scraperJobsSubmittedTotal.WithLabelValues(result).Inc()
}

// ObserveJob counts a job that reached a final state for the given site.
func ObserveJob(site string, status string) {
	scraperJobsFinishedTotal.WithLabelValues(SanitizeSite(site), status).Inc()
}

// ObservePollAttempt counts one status request.
func ObservePollAttempt() {
	scraperPollAttemptsTotal.Inc()
}

// SetCheckpoint records the persisted checkpoint index.
func SetCheckpoint(index int) {
	scraperCheckpointIndex.Set(float64(index))
}
