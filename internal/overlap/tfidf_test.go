package overlap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhrases(t *testing.T) {
	assert.Equal(t,
		[]string{"the quick brown", "quick brown fox"},
		Phrases("the quick brown fox"))
	assert.Nil(t, Phrases("two words"))
	assert.Nil(t, Phrases(""))
	assert.Equal(t, []string{"a b c"}, Phrases("a b c"))
}

func TestVocabulary(t *testing.T) {
	v := NewVocabulary()

	assert.Equal(t, 0, v.Add("alpha beta gamma"))
	assert.Equal(t, 1, v.Add("beta gamma delta"))
	assert.Equal(t, 0, v.Add("alpha beta gamma"))
	assert.Equal(t, 2, v.Len())

	i, ok := v.Index("beta gamma delta")
	require.True(t, ok)
	p, ok := v.Phrase(i)
	require.True(t, ok)
	assert.Equal(t, "beta gamma delta", p)

	_, ok = v.Index("missing")
	assert.False(t, ok)
	_, ok = v.Phrase(5)
	assert.False(t, ok)
	_, ok = v.Phrase(-1)
	assert.False(t, ok)
}

func TestFit_VocabularyIsLexicallyOrdered(t *testing.T) {
	m := Fit([]string{"zeta eta theta iota", "alpha beta gamma"})
	v := m.Vocabulary()

	require.Equal(t, 3, v.Len())
	first, _ := v.Phrase(0)
	last, _ := v.Phrase(2)
	assert.Equal(t, "alpha beta gamma", first)
	assert.Equal(t, "zeta eta theta", last)
}

func TestFit_SmoothedIDF(t *testing.T) {
	m := Fit([]string{"one two three", "one two three four", "five six seven"})

	common, ok := m.Vocabulary().Index("one two three")
	require.True(t, ok)
	rare, ok := m.Vocabulary().Index("five six seven")
	require.True(t, ok)

	assert.InDelta(t, math.Log(4.0/3.0)+1, m.IDF(common), 1e-12)
	assert.InDelta(t, math.Log(4.0/2.0)+1, m.IDF(rare), 1e-12)
	assert.Greater(t, m.IDF(rare), m.IDF(common))
	assert.Zero(t, m.IDF(99))
}

func TestTransform(t *testing.T) {
	m := Fit([]string{"machine learning models require large datasets"})

	vec := m.Transform("large datasets are required by machine learning models")
	require.Equal(t, 1, vec.Len())
	p, _ := m.Vocabulary().Phrase(vec.Indices[0])
	assert.Equal(t, "machine learning models", p)
	assert.InDelta(t, 1.0, vec.Weights[0], 1e-12)

	assert.Zero(t, m.Transform("nothing in common here").Len())
	assert.Zero(t, m.Transform("").Len())
}

func TestTransform_L2Normalised(t *testing.T) {
	m := Fit([]string{"a b c d e", "a b c"})
	vec := m.Transform("a b c d e a b c")

	var sum float64
	for i, w := range vec.Weights {
		assert.Greater(t, w, 0.0)
		if i > 0 {
			assert.Greater(t, vec.Indices[i], vec.Indices[i-1])
		}
		sum += w * w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestFit_Empty(t *testing.T) {
	m := Fit(nil)
	assert.Zero(t, m.Vocabulary().Len())
	assert.Zero(t, m.Transform("the quick brown fox").Len())
}
