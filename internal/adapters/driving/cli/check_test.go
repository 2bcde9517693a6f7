package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

func TestCheckCmd_Flags(t *testing.T) {
	for _, name := range []string{"file", "format", "top-k", "no-color", "candidates"} {
		assert.NotNil(t, checkCmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "f", checkCmd.Flags().Lookup("file").Shorthand)
	assert.Equal(t, "k", checkCmd.Flags().Lookup("top-k").Shorthand)
}

func TestCheckCmd_TextOutput(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "", "check", "The", "quick", "brown", "fox", "jumps.")
	require.NoError(t, err)

	assert.Equal(t, "The quick brown fox jumps.", ts.check.text)
	assert.Equal(t, 0, ts.check.topK)
	assert.Contains(t, out, "Overlap percentage 73.08%")
	assert.Contains(t, out, "[The quick brown fox] jumps.")
	assert.NotContains(t, out, "Closest corpus sentences")
}

func TestCheckCmd_ReadsStdin(t *testing.T) {
	ts := setupTestServices(t)

	_, err := executeCommand(t, "Text from a pipe.", "check")
	require.NoError(t, err)
	assert.Equal(t, "Text from a pipe.", ts.check.text)
}

func TestCheckCmd_ReadsFile(t *testing.T) {
	ts := setupTestServices(t)
	path := filepath.Join(t.TempDir(), "essay.txt")
	require.NoError(t, os.WriteFile(path, []byte("Essay text."), 0o600))

	_, err := executeCommand(t, "", "check", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "Essay text.", ts.check.text)
}

func TestCheckCmd_FileAndArgs(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "essay.txt")
	require.NoError(t, os.WriteFile(path, []byte("Essay text."), 0o600))

	_, err := executeCommand(t, "", "check", "--file", path, "more text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestCheckCmd_TopK(t *testing.T) {
	ts := setupTestServices(t)

	_, err := executeCommand(t, "", "check", "-k", "5", "text")
	require.NoError(t, err)
	assert.Equal(t, 5, ts.check.topK)
}

func TestCheckCmd_Candidates(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "", "check", "--candidates", "1", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Closest corpus sentences:")
	assert.Contains(t, out, "animals.txt #0")
	assert.NotContains(t, out, "ml.txt")
}

func TestCheckCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "", "check", "--format", "json", "text")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 73.08, got["percentage"], 1e-9)
	assert.Len(t, got["sentences"], 1)
	assert.Len(t, got["candidates"], 2)
}

func TestCheckCmd_YAML(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "", "check", "--format", "yaml", "text")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 73.08, got["percentage"], 1e-9)
	assert.Equal(t, 12, got["corpus_sentences"])
}

func TestCheckCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		err     error
		wantMsg string
		wantIs  error
	}{
		{name: "unknown format", args: []string{"check", "--format", "xml", "text"}, wantMsg: `unknown format "xml"`},
		{name: "empty corpus", args: []string{"check", "text"}, err: domain.ErrNoCorpus,
			wantMsg: "run 'overlap ingest' first", wantIs: domain.ErrNoCorpus},
		{name: "embedding failure", args: []string{"check", "text"}, err: domain.ErrEmbeddingUnavailable,
			wantMsg: "check failed", wantIs: domain.ErrEmbeddingUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServices(t)
			ts.check.err = tt.err

			_, err := executeCommand(t, "", tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs))
			}
		})
	}
}

func TestCheckCmd_NoService(t *testing.T) {
	SetServices(&Services{EmbeddingErr: domain.ErrEmbeddingUnavailable})
	t.Cleanup(func() { SetServices(nil) })

	_, err := executeCommand(t, "", "check", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check service not configured")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRenderSentence(t *testing.T) {
	bracket := func(s string) string { return "[" + s + "]" }

	tests := []struct {
		name     string
		sentence domain.SentenceReport
		want     string
	}{
		{
			name:     "no segments",
			sentence: domain.SentenceReport{Text: "Nothing matched here."},
			want:     "Nothing matched here.",
		},
		{
			name: "overlap in the middle",
			sentence: domain.SentenceReport{Segments: []domain.Segment{
				{Kind: domain.SegmentUnmarked, Text: "I think "},
				{Kind: domain.SegmentOverlap, Text: "the quick brown fox"},
				{Kind: domain.SegmentUnmarked, Text: " is fast."},
			}},
			want: "I think [the quick brown fox] is fast.",
		},
		{
			name: "fully overlapping",
			sentence: domain.SentenceReport{Segments: []domain.Segment{
				{Kind: domain.SegmentOverlap, Text: "All of it."},
			}},
			want: "[All of it.]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderSentence(tt.sentence, bracket))
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{43.64, "43.64"},
		{12.5, "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPercentage(tt.in))
		})
	}
}
