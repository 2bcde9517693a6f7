package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNoCorpus", ErrNoCorpus},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrFetchFailed", ErrFetchFailed},
		{"ErrCorpusInconsistent", ErrCorpusInconsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNoCorpus(t *testing.T) {
	assert.Equal(t, "no corpus available", ErrNoCorpus.Error())
	assert.False(t, errors.Is(ErrNoCorpus, ErrNotFound))
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("downloading %s: %w", "https://example.com/a.pdf", ErrFetchFailed)

	assert.True(t, errors.Is(wrapped, ErrFetchFailed))
	assert.False(t, errors.Is(wrapped, ErrNoCorpus))
	assert.Contains(t, wrapped.Error(), "fetch failed")
}
