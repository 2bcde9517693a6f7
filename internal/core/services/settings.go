package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider     = "embedding.provider"
	KeyEmbedModel        = "embedding.model"
	KeyEmbedBaseURL      = "embedding.base_url"
	KeyEmbedAPIKey       = "embedding.api_key"
	KeyEmbedDimensions   = "embedding.dimensions"
	KeyEmbedRateLimit    = "embedding.rate_limit"
	KeyCheckTopK         = "check.top_k"
	KeyCheckQueryBatch   = "check.query_batch_size"
	KeyIngestBatchSize   = "ingest.batch_size"
	KeyIngestSourcesDir  = "ingest.sources_dir"
	KeyIngestMinLength   = "ingest.min_sentence_length"
	KeyFetchTimeout      = "fetch.timeout_seconds"
	KeyFetchMaxBytes     = "fetch.max_bytes"
	envOpenAIAPIKey      = "OPENAI_API_KEY"
	envOllamaHost        = "OLLAMA_HOST"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// SettingKeys returns every recognised configuration key in display order.
func SettingKeys() []string {
	return []string{
		KeyEmbedProvider,
		KeyEmbedModel,
		KeyEmbedBaseURL,
		KeyEmbedAPIKey,
		KeyEmbedDimensions,
		KeyEmbedRateLimit,
		KeyCheckTopK,
		KeyCheckQueryBatch,
		KeyIngestBatchSize,
		KeyIngestSourcesDir,
		KeyIngestMinLength,
		KeyFetchTimeout,
		KeyFetchMaxBytes,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	sourcesDir  string
}

// NewSettingsService creates a new settings service. defaultSourcesDir is
// used when ingest.sources_dir is not configured.
func NewSettingsService(configStore driven.ConfigStore, defaultSourcesDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		sourcesDir:  defaultSourcesDir,
	}
}

// Get retrieves current application settings. Missing keys fall back to
// defaults; OPENAI_API_KEY and OLLAMA_HOST fill an unset key or base URL.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Embedding.Provider)
	model := s.configStore.GetString(KeyEmbedModel)
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	baseURL := s.configStore.GetString(KeyEmbedBaseURL)
	if baseURL == "" && provider == domain.EmbeddingProviderOllama {
		baseURL = os.Getenv(envOllamaHost)
	}
	apiKey := s.configStore.GetString(KeyEmbedAPIKey)
	if apiKey == "" && provider == domain.EmbeddingProviderOpenAI {
		apiKey = os.Getenv(envOpenAIAPIKey)
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   provider,
			Model:      model,
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Dimensions: s.getInt(KeyEmbedDimensions, defaults.Embedding.Dimensions),
			RateLimit:  s.configStore.GetFloat(KeyEmbedRateLimit),
		},
		Check: domain.CheckSettings{
			TopK:           s.getInt(KeyCheckTopK, defaults.Check.TopK),
			QueryBatchSize: s.getInt(KeyCheckQueryBatch, defaults.Check.QueryBatchSize),
		},
		Ingest: domain.IngestSettings{
			BatchSize:         s.getInt(KeyIngestBatchSize, defaults.Ingest.BatchSize),
			SourcesDir:        s.getString(KeyIngestSourcesDir, s.sourcesDir),
			MinSentenceLength: s.getInt(KeyIngestMinLength, defaults.Ingest.MinSentenceLength),
		},
		Fetch: domain.FetchSettings{
			Timeout:  time.Duration(s.getInt(KeyFetchTimeout, int(defaults.Fetch.Timeout/time.Second))) * time.Second,
			MaxBytes: int64(s.getInt(KeyFetchMaxBytes, int(defaults.Fetch.MaxBytes))),
		},
	}

	return settings, nil
}

// Save persists application settings. An API key that only came from the
// environment is not written to the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}

	type setting struct {
		key   string
		value any
	}
	values := []setting{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedDimensions, settings.Embedding.Dimensions},
		{KeyEmbedRateLimit, settings.Embedding.RateLimit},
		{KeyCheckTopK, settings.Check.TopK},
		{KeyCheckQueryBatch, settings.Check.QueryBatchSize},
		{KeyIngestBatchSize, settings.Ingest.BatchSize},
		{KeyIngestMinLength, settings.Ingest.MinSentenceLength},
		{KeyFetchTimeout, int(settings.Fetch.Timeout / time.Second)},
		{KeyFetchMaxBytes, settings.Fetch.MaxBytes},
	}
	if settings.Ingest.SourcesDir != "" && settings.Ingest.SourcesDir != s.sourcesDir {
		values = append(values, setting{KeyIngestSourcesDir, settings.Ingest.SourcesDir})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	apiKey := settings.Embedding.APIKey
	if apiKey != "" && (s.configStore.GetString(KeyEmbedAPIKey) != "" || apiKey != os.Getenv(envOpenAIAPIKey)) {
		if err := s.configStore.Set(KeyEmbedAPIKey, apiKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyEmbedAPIKey, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Validate API key if required
	if apiKey == "" && provider == settings.Embedding.Provider {
		apiKey = settings.Embedding.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrEmbeddingUnavailable, provider)
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	switch provider {
	case domain.EmbeddingProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaBaseURL
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetValue validates and stores a single configuration key.
func (s *SettingsService) SetValue(key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case KeyEmbedProvider:
		p := domain.EmbeddingProvider(value)
		if !p.IsValid() {
			return fmt.Errorf("%w: %s must be one of %v", domain.ErrInvalidInput, key, domain.AllEmbeddingProviders())
		}
		stored = value
	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyIngestSourcesDir:
		stored = value
	case KeyEmbedDimensions, KeyCheckTopK, KeyCheckQueryBatch,
		KeyIngestBatchSize, KeyIngestMinLength, KeyFetchTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case KeyFetchMaxBytes:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case KeyEmbedRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = f
	default:
		return fmt.Errorf("%w: unknown configuration key %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.Ingest.SourcesDir = s.sourcesDir
	return defaults
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	val := s.configStore.GetString(KeyEmbedProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.EmbeddingProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
