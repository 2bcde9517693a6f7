package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

func TestBootstrap_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(file.HomeEnv, home)
	t.Setenv("OPENAI_API_KEY", "")

	svc, err := bootstrap(context.Background(), cli.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	assert.NoError(t, svc.EmbeddingErr)
	assert.NotNil(t, svc.Ingest)
	assert.NotNil(t, svc.Check)
	assert.NotNil(t, svc.Corpus)
	assert.NotNil(t, svc.Metrics)
	assert.Equal(t, filepath.Join(home, sourcesDirName), svc.SourcesDir)
	assert.FileExists(t, filepath.Join(home, dataDirName, "corpus.db"))
}

func TestBootstrap_EphemeralRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv(file.HomeEnv, home)
	t.Setenv("OPENAI_API_KEY", "")
	ctx := context.Background()

	svc, err := bootstrap(ctx, cli.Options{Ephemeral: true})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	_, err = os.Stat(filepath.Join(home, dataDirName))
	assert.True(t, os.IsNotExist(err))

	_, err = svc.Ingest.IngestText(ctx, "animals", "The quick brown fox jumps over the lazy dog.")
	require.NoError(t, err)

	report, err := svc.Check.Check(ctx, "The quick brown fox jumps over the lazy dog.")
	require.NoError(t, err)
	assert.Greater(t, report.Percentage, 90.0)
}

func TestBootstrap_ConfigPathOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv(file.HomeEnv, home)
	path := filepath.Join(t.TempDir(), "custom.toml")

	svc, err := bootstrap(context.Background(), cli.Options{ConfigPath: path, Ephemeral: true})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	assert.Equal(t, path, svc.ConfigPath)
}

func TestBootstrap_MissingAPIKeyKeepsSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv(file.HomeEnv, home)
	t.Setenv("OPENAI_API_KEY", "")
	require.NoError(t, os.WriteFile(filepath.Join(home, file.ConfigFile),
		[]byte("[embedding]\nprovider = \"openai\"\n"), 0o600))

	svc, err := bootstrap(context.Background(), cli.Options{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.EmbeddingErr, domain.ErrEmbeddingUnavailable)
	assert.NotNil(t, svc.Settings)
	assert.Nil(t, svc.Ingest)
	assert.Nil(t, svc.Check)
	assert.Nil(t, svc.Close)
}
