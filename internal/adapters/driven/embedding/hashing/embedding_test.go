package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/retrieval"
)

func TestEmbed_Deterministic(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx := context.Background()

	a, err := svc.Embed(ctx, "The quick brown fox.")
	require.NoError(t, err)
	b, err := svc.Embed(ctx, "The quick brown fox.")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)
}

func TestEmbed_UnitLength(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 64})
	vec, err := svc.Embed(context.Background(), "machine learning models require large datasets")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 8})
	vec, err := svc.Embed(context.Background(), "...")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), vec)
}

func TestEmbed_SimilarTextScoresHigher(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	vecs, err := svc.EmbedBatch(context.Background(), []string{
		"Machine learning models require large datasets.",
		"Large datasets are required by machine learning models.",
		"Unrelated sentence about cats.",
	})
	require.NoError(t, err)

	related := retrieval.Dot(vecs[0], vecs[1])
	unrelated := retrieval.Dot(vecs[0], vecs[2])
	assert.Greater(t, related, unrelated)
}

func TestEmbed_CaseInsensitive(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	a, _ := svc.Embed(context.Background(), "HELLO World")
	b, _ := svc.Embed(context.Background(), "hello world")
	assert.Equal(t, a, b)
}

func TestEmbedBatch_CancelledContext(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EmbedBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetadata(t *testing.T) {
	svc := NewEmbeddingService(Config{Dimensions: 16})
	assert.Equal(t, 16, svc.Dimensions())
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
