// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: turns sentences into fixed-dimension vectors
//   - CorpusStore: persists the corpus index with all-or-nothing appends
//   - SentenceSplitter: splits raw text into sentences
//   - ExtractorRegistry: selects an Extractor for a file's content type
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil or replaced with no-op implementations:
//
//   - Fetcher: downloads sources by URL. Without it, URL ingestion is disabled.
//   - MetricsRecorder: counters and histograms. NopMetrics is used by default.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
