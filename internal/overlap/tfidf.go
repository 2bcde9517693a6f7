package overlap

import (
	"math"
	"sort"
)

// Model is a TF-IDF weighting over phrases fitted on a set of reference
// sentences.
type Model struct {
	vocab *Vocabulary
	idf   []float64
	docs  int
}

// Vector is a sparse, L2-normalised TF-IDF vector. Indices are ascending.
type Vector struct {
	Indices []int
	Weights []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// Fit builds the phrase vocabulary of the normalised reference sentences and
// their smoothed inverse document frequencies, idf = ln((1+n)/(1+df)) + 1.
// Vocabulary indices follow the lexical order of phrases.
func Fit(references []string) *Model {
	df := make(map[string]int)
	for _, ref := range references {
		seen := make(map[string]struct{})
		for _, p := range Phrases(ref) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			df[p]++
		}
	}

	phrases := make([]string, 0, len(df))
	for p := range df {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)

	m := &Model{
		vocab: NewVocabulary(),
		idf:   make([]float64, len(phrases)),
		docs:  len(references),
	}
	n := float64(len(references))
	for _, p := range phrases {
		i := m.vocab.Add(p)
		m.idf[i] = math.Log((1+n)/(1+float64(df[p]))) + 1
	}
	return m
}

// Vocabulary returns the fitted phrase vocabulary.
func (m *Model) Vocabulary() *Vocabulary {
	return m.vocab
}

// IDF returns the inverse document frequency of feature i.
func (m *Model) IDF(i int) float64 {
	if i < 0 || i >= len(m.idf) {
		return 0
	}
	return m.idf[i]
}

// Transform weights the phrases of a normalised sentence. Phrases outside the
// fitted vocabulary are ignored.
func (m *Model) Transform(normalized string) Vector {
	counts := make(map[int]int)
	for _, p := range Phrases(normalized) {
		if i, ok := m.vocab.Index(p); ok {
			counts[i]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	v := Vector{
		Indices: make([]int, 0, len(counts)),
		Weights: make([]float64, 0, len(counts)),
	}
	for i := range counts {
		v.Indices = append(v.Indices, i)
	}
	sort.Ints(v.Indices)

	var norm float64
	for _, i := range v.Indices {
		w := float64(counts[i]) * m.idf[i]
		v.Weights = append(v.Weights, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for k := range v.Weights {
		v.Weights[k] /= norm
	}
	return v
}
