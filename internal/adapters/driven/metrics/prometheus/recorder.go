// Package prometheus records service metrics with the Prometheus client and
// exposes them over HTTP.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

const namespace = "overlap"

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Recorder implements driven.MetricsRecorder on its own registry.
type Recorder struct {
	registry           *prometheus.Registry
	documents          prometheus.Counter
	sentences          prometheus.Counter
	extractionFailures *prometheus.CounterVec
	checks             prometheus.Counter
	checkDuration      prometheus.Histogram
	overlapPercentage  prometheus.Histogram
}

// New creates a recorder with a private registry that also carries the Go
// runtime and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_ingested_total",
			Help:      "Documents written to the corpus.",
		}),
		sentences: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_ingested_total",
			Help:      "Sentences appended to the corpus.",
		}),
		extractionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_failures_total",
			Help:      "Sources whose text could not be extracted.",
		}, []string{"mime_type"}),
		checks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Completed overlap checks.",
		}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time taken by an overlap check.",
			Buckets:   prometheus.DefBuckets,
		}),
		overlapPercentage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_overlap_percentage",
			Help:      "Overlap percentage reported by checks.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}

	r.registry.MustRegister(
		r.documents,
		r.sentences,
		r.extractionFailures,
		r.checks,
		r.checkDuration,
		r.overlapPercentage,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// DocumentsIngested counts documents written to the corpus.
func (r *Recorder) DocumentsIngested(n int) {
	if n > 0 {
		r.documents.Add(float64(n))
	}
}

// SentencesIngested counts sentences appended to the corpus.
func (r *Recorder) SentencesIngested(n int) {
	if n > 0 {
		r.sentences.Add(float64(n))
	}
}

// ExtractionFailed counts an extraction failure for a MIME type.
func (r *Recorder) ExtractionFailed(mimeType string) {
	if mimeType == "" {
		mimeType = "unknown"
	}
	r.extractionFailures.WithLabelValues(mimeType).Inc()
}

// CheckCompleted observes one finished check.
func (r *Recorder) CheckCompleted(percentage float64, took time.Duration) {
	r.checks.Inc()
	r.checkDuration.Observe(took.Seconds())
	r.overlapPercentage.Observe(percentage)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
