package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// EmbeddingProvider identifies an embedding service provider.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderHashing is the built-in offline feature-hashing provider.
	EmbeddingProviderHashing EmbeddingProvider = "hashing"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderHashing, EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// IsLocal returns true if this provider runs on this machine.
func (p EmbeddingProvider) IsLocal() bool {
	return p == EmbeddingProviderOllama || p == EmbeddingProviderHashing
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderHashing:
		return "Hashing (built-in, offline)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns every supported provider.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderHashing,
		EmbeddingProviderOllama,
		EmbeddingProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderHashing: "hashing-v1",
		EmbeddingProviderOllama:  "nomic-embed-text",
		EmbeddingProviderOpenAI:  "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size of the hashing provider.
	Dimensions int

	// RateLimit caps provider requests per second. Zero disables limiting.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CheckSettings controls query checking.
type CheckSettings struct {
	// TopK is how many corpus sentences the retriever selects.
	TopK int

	// QueryBatchSize is the embedding batch size for query sentences.
	QueryBatchSize int
}

// IngestSettings controls corpus ingestion.
type IngestSettings struct {
	// BatchSize is the embedding batch size for source sentences.
	BatchSize int

	// SourcesDir is the directory scanned by directory ingestion and
	// used as the download target for URLs.
	SourcesDir string

	// MinSentenceLength drops split fragments shorter than this many runes.
	MinSentenceLength int
}

// FetchSettings controls URL downloads.
type FetchSettings struct {
	// Timeout bounds a single download.
	Timeout time.Duration

	// MaxBytes caps the size of a download.
	MaxBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Check     CheckSettings
	Ingest    IngestSettings
	Fetch     FetchSettings
}

// Default tunables.
const (
	DefaultTopK              = 50
	DefaultQueryBatchSize    = 20
	DefaultIngestBatchSize   = 10
	DefaultHashingDimensions = 384
	DefaultFetchTimeout      = 30 * time.Second
	DefaultFetchMaxBytes     = 50 << 20
)

// DefaultAppSettings returns settings that work offline out of the box.
// SourcesDir is left empty and resolved against the data directory by the caller.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   EmbeddingProviderHashing,
			Model:      DefaultEmbeddingModels()[EmbeddingProviderHashing],
			Dimensions: DefaultHashingDimensions,
		},
		Check: CheckSettings{
			TopK:           DefaultTopK,
			QueryBatchSize: DefaultQueryBatchSize,
		},
		Ingest: IngestSettings{
			BatchSize:         DefaultIngestBatchSize,
			MinSentenceLength: 1,
		},
		Fetch: FetchSettings{
			Timeout:  DefaultFetchTimeout,
			MaxBytes: DefaultFetchMaxBytes,
		},
	}
}

// Validate checks that settings are usable.
func (s AppSettings) Validate() error {
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: %s requires an API key", ErrEmbeddingUnavailable, s.Embedding.Provider)
	}
	if s.Embedding.RateLimit < 0 {
		return fmt.Errorf("%w: embedding.rate_limit must not be negative", ErrInvalidInput)
	}
	if s.Check.TopK <= 0 {
		return fmt.Errorf("%w: check.top_k must be positive", ErrInvalidInput)
	}
	if s.Check.QueryBatchSize <= 0 {
		return fmt.Errorf("%w: check.query_batch_size must be positive", ErrInvalidInput)
	}
	if s.Ingest.BatchSize <= 0 {
		return fmt.Errorf("%w: ingest.batch_size must be positive", ErrInvalidInput)
	}
	return nil
}
