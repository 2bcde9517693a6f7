// Package retrieval selects the corpus sentences most plausibly related to a
// query. Similarity is the raw dot product between embeddings; a corpus row is
// scored by its best-aligned query row.
package retrieval

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// Candidate is a corpus row with its score.
type Candidate struct {
	Index int
	Score float64
}

// Dot returns the dot product of a and b over their common length.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Scores returns, for every corpus row, the maximum dot product over all
// query rows.
func Scores(query, corpus [][]float32) []float64 {
	if len(query) == 0 {
		return nil
	}
	scores := make([]float64, len(corpus))
	for j, row := range corpus {
		best := Dot(query[0], row)
		for _, q := range query[1:] {
			if s := Dot(q, row); s > best {
				best = s
			}
		}
		scores[j] = best
	}
	return scores
}

// Rank returns the k best corpus rows by descending score. Rows with equal
// scores keep ascending index order. When the corpus has at most k rows all
// of them are returned.
func Rank(query, corpus [][]float32, k int) []Candidate {
	if k <= 0 || len(query) == 0 || len(corpus) == 0 {
		return nil
	}
	scores := Scores(query, corpus)

	ranked := make([]Candidate, len(scores))
	for i, s := range scores {
		ranked[i] = Candidate{Index: i, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// TopCandidates returns the indices of the k best corpus rows, best first.
func TopCandidates(query, corpus [][]float32, k int) []int {
	ranked := Rank(query, corpus, k)
	if ranked == nil {
		return nil
	}
	idx := make([]int, len(ranked))
	for i, c := range ranked {
		idx[i] = c.Index
	}
	return idx
}

// RankChecked is Rank after verifying every query and corpus row has the
// same length.
func RankChecked(query, corpus [][]float32, k int) ([]Candidate, error) {
	dims := -1
	check := func(kind string, rows [][]float32) error {
		for i, row := range rows {
			if dims < 0 {
				dims = len(row)
				continue
			}
			if len(row) != dims {
				return fmt.Errorf("%w: %s row %d has %d values, want %d",
					domain.ErrDimensionMismatch, kind, i, len(row), dims)
			}
		}
		return nil
	}
	if err := check("corpus", corpus); err != nil {
		return nil, err
	}
	if err := check("query", query); err != nil {
		return nil, err
	}
	return Rank(query, corpus, k), nil
}
