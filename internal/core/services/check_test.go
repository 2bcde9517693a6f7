package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/splitter"
)

func newCheckService(t *testing.T, topK int) (*CheckService, *testEnv, *countingMetrics) {
	t.Helper()
	env := newTestEnv(t)
	metrics := newCountingMetrics()
	svc := NewCheckService(env.index, splitter.NewDefault(1), env.embedder, metrics,
		domain.CheckSettings{TopK: topK, QueryBatchSize: 2})
	return svc, env, metrics
}

func seedCorpus(t *testing.T, env *testEnv) {
	t.Helper()
	_, err := env.index.AddDocuments(context.Background(), []domain.SourceText{
		{Source: "animals.txt", Text: "The quick brown fox jumps over the lazy dog. Cats sleep most of the day."},
		{Source: "ml.txt", Text: "Machine learning models require large datasets."},
	})
	require.NoError(t, err)
}

func TestCheckService_IdenticalSentence(t *testing.T) {
	svc, env, metrics := newCheckService(t, 50)
	seedCorpus(t, env)

	report, err := svc.Check(context.Background(), "The quick brown fox jumps over the lazy dog.")
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.Percentage)
	require.Len(t, report.Sentences, 1)
	assert.Equal(t, 3, report.CorpusSentences)
	require.Len(t, report.Candidates, 3)
	assert.Equal(t, "animals.txt", report.Candidates[0].Source)
	assert.Equal(t, domain.SentenceRef{Document: 0, Ordinal: 0}, report.Candidates[0].Ref)
	assert.Equal(t, "The quick brown fox jumps over the lazy dog.", report.Candidates[0].Text)
	assert.Positive(t, report.Duration)
	assert.Equal(t, 1, metrics.checks)
	assert.Equal(t, []float64{100.0}, metrics.percentages)
}

func TestCheckService_TopKLimitsCandidates(t *testing.T) {
	tests := []struct {
		name string
		topK int
		want int
	}{
		{name: "top one", topK: 1, want: 1},
		{name: "larger than corpus", topK: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, env, _ := newCheckService(t, 50)
			seedCorpus(t, env)

			report, err := svc.CheckTopK(context.Background(), "Machine learning models require large datasets.", tt.topK)
			require.NoError(t, err)

			require.Len(t, report.Candidates, tt.want)
			assert.Equal(t, "ml.txt", report.Candidates[0].Source)
			for i := 1; i < len(report.Candidates); i++ {
				assert.GreaterOrEqual(t, report.Candidates[i-1].Score, report.Candidates[i].Score)
			}
		})
	}
}

func TestCheckService_UnrelatedQuery(t *testing.T) {
	svc, env, _ := newCheckService(t, 50)
	seedCorpus(t, env)

	report, err := svc.Check(context.Background(), "Completely different text about space travel.")
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.Percentage)
	require.Len(t, report.Sentences, 1)
	assert.Empty(t, report.Sentences[0].Spans)
}

func TestCheckService_QueryBatches(t *testing.T) {
	svc, env, _ := newCheckService(t, 50)
	seedCorpus(t, env)
	seeded := len(env.embedder.batchSizes())

	_, err := svc.Check(context.Background(), "One is here. Two is here. Three is here. Four is here. Five is here.")
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, env.embedder.batchSizes()[seeded:])
}

func TestCheckService_EmptyQuery(t *testing.T) {
	svc, env, metrics := newCheckService(t, 50)

	for _, text := range []string{"", "   \n\t "} {
		report, err := svc.Check(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, 0.0, report.Percentage)
		assert.Empty(t, report.Sentences)
		assert.Empty(t, report.Candidates)
	}
	assert.Empty(t, env.embedder.batchSizes())
	assert.Equal(t, 0, metrics.checks)
}

func TestCheckService_NoCorpus(t *testing.T) {
	svc, env, _ := newCheckService(t, 50)

	_, err := svc.Check(context.Background(), "Anything at all.")
	require.ErrorIs(t, err, domain.ErrNoCorpus)
	assert.Empty(t, env.embedder.batchSizes())
}

func TestCheckService_DimensionMismatch(t *testing.T) {
	store := memory.NewCorpusStore()
	index := NewCorpusIndex(store, splitter.NewDefault(1), hashing.NewEmbeddingService(hashing.Config{Dimensions: 8}))
	_, err := index.AddDocuments(context.Background(), []domain.SourceText{{Source: "a", Text: "Alpha is here."}})
	require.NoError(t, err)

	svc := NewCheckService(index, splitter.NewDefault(1), hashing.NewEmbeddingService(hashing.Config{Dimensions: 16}),
		nil, domain.CheckSettings{})

	_, err = svc.Check(context.Background(), "Alpha is here.")
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestCheckService_EmbeddingFailure(t *testing.T) {
	svc, env, _ := newCheckService(t, 50)
	seedCorpus(t, env)
	env.embedder.failOn = len(env.embedder.batchSizes()) + 1

	_, err := svc.Check(context.Background(), "The quick brown fox.")
	require.ErrorIs(t, err, errEmbed)
}
