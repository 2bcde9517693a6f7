package overlap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		phrase string
		want   domain.Span
		found  bool
	}{
		{"case insensitive", "The Quick brown fox", "the quick brown", domain.Span{Start: 0, Stop: 15}, true},
		{"absorbs trailing punctuation", "over the lazy dog.", "the lazy dog", domain.Span{Start: 5, Stop: 18}, true},
		{"absorbs closing quote only", `he said "stop right there"`, "stop right there", domain.Span{Start: 9, Stop: 26}, true},
		{"leading bracket stays unmarked", "(the lazy dog)", "the lazy dog", domain.Span{Start: 1, Stop: 14}, true},
		{"leading dashes stay unmarked", "--the lazy dog.", "the lazy dog", domain.Span{Start: 2, Stop: 15}, true},
		{"first occurrence wins", "a b c a b c", "a b c", domain.Span{Start: 0, Stop: 5}, true},
		{"punctuation inside breaks match", "brown fox, jumps", "brown fox jumps", domain.Span{}, false},
		{"missing phrase", "nothing here", "the lazy dog", domain.Span{}, false},
		{"empty phrase", "text", "", domain.Span{}, false},
		{"multibyte offsets", "Über café time now", "café time now", domain.Span{Start: 6, Stop: 20}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(tt.text, tt.phrase)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuneSpans(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []domain.Span
		want  []domain.Span
	}{
		{"nil", "abc", nil, []domain.Span{}},
		{"ascii unchanged", "the lazy dog", []domain.Span{{Start: 4, Stop: 8}}, []domain.Span{{Start: 4, Stop: 8}}},
		{"multibyte prefix", "Über café time now", []domain.Span{{Start: 6, Stop: 20}}, []domain.Span{{Start: 5, Stop: 18}}},
		{"clamped", "héllo", []domain.Span{{Start: 3, Stop: 99}}, []domain.Span{{Start: 2, Stop: 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuneSpans(tt.text, tt.spans))
		})
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []domain.Span
		want []domain.Span
	}{
		{"nil", nil, nil},
		{"single", []domain.Span{{Start: 2, Stop: 5}}, []domain.Span{{Start: 2, Stop: 5}}},
		{"overlapping", []domain.Span{{Start: 0, Stop: 15}, {Start: 4, Stop: 19}}, []domain.Span{{Start: 0, Stop: 19}}},
		{"touching coalesce", []domain.Span{{Start: 0, Stop: 3}, {Start: 3, Stop: 6}}, []domain.Span{{Start: 0, Stop: 6}}},
		{"disjoint unsorted", []domain.Span{{Start: 10, Stop: 12}, {Start: 0, Stop: 3}}, []domain.Span{{Start: 0, Stop: 3}, {Start: 10, Stop: 12}}},
		{"contained", []domain.Span{{Start: 0, Stop: 10}, {Start: 2, Stop: 4}}, []domain.Span{{Start: 0, Stop: 10}}},
		{"empty spans dropped", []domain.Span{{Start: 4, Stop: 4}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.in))
		})
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	in := []domain.Span{{Start: 5, Stop: 9}, {Start: 0, Stop: 2}}
	Merge(in)
	assert.Equal(t, []domain.Span{{Start: 5, Stop: 9}, {Start: 0, Stop: 2}}, in)
}

func TestMerge_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 500; round++ {
		n := rng.Intn(12)
		in := make([]domain.Span, n)
		covered := make(map[int]bool)
		for i := range in {
			start := rng.Intn(60)
			stop := start + rng.Intn(10)
			in[i] = domain.Span{Start: start, Stop: stop}
			for p := start; p < stop; p++ {
				covered[p] = true
			}
		}

		out := Merge(in)

		got := make(map[int]bool)
		for i, s := range out {
			require.Greater(t, s.Stop, s.Start)
			if i > 0 {
				// sorted, disjoint and non-touching
				require.Greater(t, s.Start, out[i-1].Stop)
			}
			for p := s.Start; p < s.Stop; p++ {
				got[p] = true
			}
		}
		require.Equal(t, covered, got, "round %d input %v", round, in)

		// minimal: every gap between outputs is uncovered
		for i := 1; i < len(out); i++ {
			for p := out[i-1].Stop; p < out[i].Start; p++ {
				require.False(t, covered[p])
			}
		}
	}
}

func TestSegments(t *testing.T) {
	text := "abc def ghi"

	segs := Segments(text, []domain.Span{{Start: 4, Stop: 7}})
	assert.Equal(t, []domain.Segment{
		{Kind: domain.SegmentUnmarked, Text: "abc "},
		{Kind: domain.SegmentOverlap, Text: "def"},
		{Kind: domain.SegmentUnmarked, Text: " ghi"},
	}, segs)

	assert.Equal(t, []domain.Segment{{Kind: domain.SegmentUnmarked, Text: text}}, Segments(text, nil))
	assert.Equal(t, []domain.Segment{{Kind: domain.SegmentOverlap, Text: text}}, Segments(text, []domain.Span{{Start: 0, Stop: 11}}))
	assert.Nil(t, Segments("", nil))
}

func TestSegments_ClampsOutOfRange(t *testing.T) {
	segs := Segments("short", []domain.Span{{Start: 2, Stop: 40}})
	assert.Equal(t, []domain.Segment{
		{Kind: domain.SegmentUnmarked, Text: "sh"},
		{Kind: domain.SegmentOverlap, Text: "ort"},
	}, segs)
}
