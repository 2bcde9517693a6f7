package driven

import "time"

// MetricsRecorder receives operational measurements from the services.
type MetricsRecorder interface {
	// DocumentsIngested counts documents written to the corpus.
	DocumentsIngested(n int)

	// SentencesIngested counts sentences appended to the corpus.
	SentencesIngested(n int)

	// ExtractionFailed counts an extraction failure for a MIME type.
	ExtractionFailed(mimeType string)

	// CheckCompleted observes one finished check.
	CheckCompleted(percentage float64, took time.Duration)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

var _ MetricsRecorder = NopMetrics{}

func (NopMetrics) DocumentsIngested(int)                 {}
func (NopMetrics) SentencesIngested(int)                 {}
func (NopMetrics) ExtractionFailed(string)               {}
func (NopMetrics) CheckCompleted(float64, time.Duration) {}
