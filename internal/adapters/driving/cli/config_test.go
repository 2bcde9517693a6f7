package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range configCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"show", "get", "set", "path", "embedding"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestConfigShow(t *testing.T) {
	setupTestServices(t)

	for _, args := range [][]string{{"config"}, {"config", "show"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			out, err := executeCommand(t, "", args...)

			require.NoError(t, err)
			assert.Contains(t, out, "[embedding]")
			assert.Contains(t, out, "[check]")
			assert.Regexp(t, `provider\s+Hashing \(built-in, offline\)`, out)
			assert.Regexp(t, `dimensions\s+384`, out)
			assert.Regexp(t, `top_k\s+50`, out)
			assert.Regexp(t, `sources_dir\s+/tmp/overlap/sources`, out)
			assert.Regexp(t, `timeout_seconds\s+30s`, out)
			assert.NotContains(t, out, "api_key")
			assert.NotContains(t, out, "base_url")
			assert.Contains(t, out, "Configuration is valid.")
		})
	}
}

func TestConfigShow_InvalidWarns(t *testing.T) {
	ts := setupTestServices(t)
	require.NoError(t, ts.config.Set("embedding.provider", "openai"))

	out, err := executeCommand(t, "", "config", "show")

	require.NoError(t, err)
	assert.Regexp(t, `api_key\s+\(not set\)`, out)
	assert.NotContains(t, out, "dimensions")
	assert.Contains(t, out, "Warning:")
}

func TestConfigShow_Structured(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{formatJSON, []string{`"embedding.provider": "hashing"`, `"check.top_k": "50"`, `"embedding.api_key": ""`}},
		{formatYAML, []string{"embedding.provider: hashing", `check.top_k: "50"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			setupTestServices(t)

			out, err := executeCommand(t, "", "config", "show", "--format", tt.format)

			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "Configuration is valid.")
		})
	}
}

func TestSettingRows_CoverGet(t *testing.T) {
	ts := setupTestServices(t)
	settings, err := ts.settings.Get()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, row := range settingRows(settings) {
		assert.False(t, seen[row.key], "duplicate key %s", row.key)
		seen[row.key] = true

		value, ok := settingValue(settings, row.key)
		assert.True(t, ok)
		assert.Equal(t, row.value, value)
	}
}

func TestConfigGet(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"embedding.provider", "hashing"},
		{"embedding.model", "hashing-v1"},
		{"check.top_k", "50"},
		{"check.query_batch_size", "20"},
		{"ingest.batch_size", "10"},
		{"fetch.timeout_seconds", "30"},
		{"embedding.rate_limit", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setupTestServices(t)

			out, err := executeCommand(t, "", "config", "get", tt.key)

			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestConfigGet_UnknownKey(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "", "config", "get", "check.colour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown setting "check.colour"`)
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantOut string
		wantErr string
	}{
		{name: "integer", key: "check.top_k", value: "25", wantOut: "Set check.top_k = 25"},
		{name: "float", key: "embedding.rate_limit", value: "2.5", wantOut: "Set embedding.rate_limit = 2.5"},
		{name: "api key is masked", key: "embedding.api_key", value: "sk-abcdefghijklmnop",
			wantOut: "Set embedding.api_key = sk-a...mnop"},
		{name: "invalid integer", key: "check.top_k", value: "0", wantErr: "must be a positive integer"},
		{name: "invalid provider", key: "embedding.provider", value: "cohere", wantErr: "must be one of"},
		{name: "unknown key", key: "check.colour", value: "red", wantErr: "unknown configuration key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServices(t)

			out, err := executeCommand(t, "", "config", "set", tt.key, tt.value)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
			_, stored := ts.config.Get(tt.key)
			assert.True(t, stored)
		})
	}
}

func TestConfigSet_RequiresValue(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "", "config", "set", "check.top_k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a value is required for check.top_k")
}

func TestConfigSet_ThenGet(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "", "config", "set", "ingest.min_sentence_length", "12")
	require.NoError(t, err)

	out, err := executeCommand(t, "", "config", "get", "ingest.min_sentence_length")
	require.NoError(t, err)
	assert.Equal(t, "12", strings.TrimSpace(out))
}

func TestConfigPath(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		setupTestServices(t)

		out, err := executeCommand(t, "", "config", "path")

		require.NoError(t, err)
		assert.Equal(t, "/tmp/overlap/config.toml", strings.TrimSpace(out))
	})

	t.Run("not configured", func(t *testing.T) {
		SetServices(&Services{})
		t.Cleanup(func() { SetServices(nil) })

		_, err := executeCommand(t, "", "config", "path")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration path not configured")
	})
}

func TestConfigEmbedding_Ollama(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "2\n\n", "config", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Embedding provider configured: Ollama (local) (nomic-embed-text)")
	assert.Equal(t, "ollama", ts.config.GetString("embedding.provider"))
	assert.Equal(t, "nomic-embed-text", ts.config.GetString("embedding.model"))
	assert.Equal(t, "http://localhost:11434", ts.config.GetString("embedding.base_url"))
}

func TestConfigEmbedding_DefaultChoice(t *testing.T) {
	ts := setupTestServices(t)

	_, err := executeCommand(t, "\ncustom-model\n", "config", "embedding")

	require.NoError(t, err)
	assert.Equal(t, "hashing", ts.config.GetString("embedding.provider"))
	assert.Equal(t, "custom-model", ts.config.GetString("embedding.model"))
}

func TestConfig_NoService(t *testing.T) {
	SetServices(&Services{})
	t.Cleanup(func() { SetServices(nil) })

	for _, args := range [][]string{{"config", "show"}, {"config", "get", "check.top_k"}, {"config", "set", "check.top_k", "3"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := executeCommand(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "settings service not configured")
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 1},
		{"1", 1},
		{"2", 2},
		{"3", 3},
		{"0", 1},
		{"4", 1},
		{"abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChoice(tt.input, 3, 1))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-1...7890", maskAPIKey("sk-1234567890"))
}
