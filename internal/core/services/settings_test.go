package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

const testSourcesDir = "/tmp/overlap/sources"

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, testSourcesDir)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")
	service := NewSettingsService(memory.NewConfigStore(), testSourcesDir)

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := service.GetDefaults()
	assert.Equal(t, defaults, *settings)
	assert.Equal(t, domain.EmbeddingProviderHashing, settings.Embedding.Provider)
	assert.Equal(t, "hashing-v1", settings.Embedding.Model)
	assert.Equal(t, testSourcesDir, settings.Ingest.SourcesDir)
	assert.Equal(t, 30*time.Second, settings.Fetch.Timeout)
	assert.NoError(t, service.Validate())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("embedding.api_key", "sk-stored")
	_ = store.Set("check.top_k", int64(7))
	_ = store.Set("fetch.timeout_seconds", int64(5))
	_ = store.Set("embedding.rate_limit", 2.5)

	service := NewSettingsService(store, testSourcesDir)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "sk-stored", settings.Embedding.APIKey)
	assert.Equal(t, 7, settings.Check.TopK)
	assert.Equal(t, 5*time.Second, settings.Fetch.Timeout)
	assert.InDelta(t, 2.5, settings.Embedding.RateLimit, 1e-9)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")

	settings, err := NewSettingsService(store, testSourcesDir).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingProviderHashing, settings.Embedding.Provider)
}

func TestSettingsService_Get_EnvironmentFallbacks(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")

	tests := []struct {
		name        string
		provider    string
		wantKey     string
		wantBaseURL string
	}{
		{name: "openai reads api key", provider: "openai", wantKey: "sk-from-env"},
		{name: "ollama reads host", provider: "ollama", wantBaseURL: "http://gpu-box:11434"},
		{name: "hashing reads neither", provider: "hashing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			_ = store.Set("embedding.provider", tt.provider)

			settings, err := NewSettingsService(store, testSourcesDir).Get()
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, settings.Embedding.APIKey)
			assert.Equal(t, tt.wantBaseURL, settings.Embedding.BaseURL)
		})
	}
}

func TestSettingsService_Save(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	store := memory.NewConfigStore()
	service := NewSettingsService(store, testSourcesDir)

	settings := service.GetDefaults()
	settings.Check.TopK = 12
	settings.Ingest.SourcesDir = "/data/sources"
	settings.Fetch.Timeout = 90 * time.Second

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 12, got.Check.TopK)
	assert.Equal(t, "/data/sources", got.Ingest.SourcesDir)
	assert.Equal(t, 90*time.Second, got.Fetch.Timeout)
	assert.Equal(t, "hashing", store.GetString("embedding.provider"))

	require.ErrorIs(t, service.Save(nil), domain.ErrInvalidInput)
}

func TestSettingsService_Save_DoesNotPersistEnvironmentKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	service := NewSettingsService(store, testSourcesDir)

	settings, err := service.Get()
	require.NoError(t, err)
	require.NoError(t, service.Save(settings))

	_, exists := store.Get("embedding.api_key")
	assert.False(t, exists)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")

	tests := []struct {
		name        string
		provider    domain.EmbeddingProvider
		model       string
		apiKey      string
		wantErr     error
		wantModel   string
		wantBaseURL string
	}{
		{
			name:        "ollama gets default model and base url",
			provider:    domain.EmbeddingProviderOllama,
			wantModel:   "nomic-embed-text",
			wantBaseURL: "http://localhost:11434",
		},
		{
			name:      "openai with key and custom model",
			provider:  domain.EmbeddingProviderOpenAI,
			model:     "text-embedding-3-large",
			apiKey:    "sk-test",
			wantModel: "text-embedding-3-large",
		},
		{
			name:     "openai without key",
			provider: domain.EmbeddingProviderOpenAI,
			wantErr:  domain.ErrEmbeddingUnavailable,
		},
		{
			name:     "unknown provider",
			provider: domain.EmbeddingProvider("cohere"),
			wantErr:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), testSourcesDir)

			err := service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantModel, settings.Embedding.Model)
			assert.Equal(t, tt.wantBaseURL, settings.Embedding.BaseURL)
			assert.Equal(t, tt.apiKey, settings.Embedding.APIKey)
		})
	}
}

func TestSettingsService_SetValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{key: "embedding.provider", value: "ollama", want: "ollama"},
		{key: "embedding.provider", value: "cohere", wantErr: true},
		{key: "embedding.model", value: "all-minilm", want: "all-minilm"},
		{key: "check.top_k", value: "25", want: 25},
		{key: "check.top_k", value: "0", wantErr: true},
		{key: "check.top_k", value: "many", wantErr: true},
		{key: "ingest.batch_size", value: "-1", wantErr: true},
		{key: "fetch.max_bytes", value: "1048576", want: int64(1048576)},
		{key: "embedding.rate_limit", value: "0.5", want: 0.5},
		{key: "embedding.rate_limit", value: "-2", wantErr: true},
		{key: "search.mode", value: "hybrid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, testSourcesDir)

			err := service.SetValue(tt.key, tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				_, exists := store.Get(tt.key)
				assert.False(t, exists)
				return
			}
			require.NoError(t, err)
			got, exists := store.Get(tt.key)
			require.True(t, exists)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_Validate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")

	err := NewSettingsService(store, testSourcesDir).Validate()
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()

	assert.Contains(t, keys, "embedding.provider")
	assert.Contains(t, keys, "check.top_k")
	assert.Len(t, keys, 13)
}
