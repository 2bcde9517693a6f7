package overlap

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// Locate finds the first case-insensitive occurrence of phrase in text and
// returns its byte span. The span is widened rightward over punctuation
// directly following the match, so a phrase ending a sentence covers its full
// stop. Opening brackets, quotes and dashes before the match stay unmarked.
// It reports false when the phrase does not occur.
func Locate(text, phrase string) (domain.Span, bool) {
	if phrase == "" {
		return domain.Span{}, false
	}
	want := make([]rune, 0, len(phrase))
	for _, r := range phrase {
		want = append(want, unicode.ToLower(r))
	}

	for start := 0; start < len(text); {
		if stop, ok := matchAt(text, start, want); ok {
			return widen(text, domain.Span{Start: start, Stop: stop}), true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return domain.Span{}, false
}

func matchAt(text string, at int, want []rune) (int, bool) {
	i := at
	for _, w := range want {
		if i >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.ToLower(r) != w {
			return 0, false
		}
		i += size
	}
	return i, true
}

func widen(text string, s domain.Span) domain.Span {
	for s.Stop < len(text) && isPunctByte(text[s.Stop]) {
		s.Stop++
	}
	return s
}

// Merge sorts spans by start and coalesces overlapping or touching spans.
// The result is sorted ascending, pairwise disjoint and non-touching, and
// covers exactly the positions covered by the input. Empty spans are dropped.
func Merge(spans []domain.Span) []domain.Span {
	sorted := make([]domain.Span, 0, len(spans))
	for _, s := range spans {
		if s.Len() > 0 {
			sorted = append(sorted, s)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Stop < sorted[j].Stop
	})

	merged := make([]domain.Span, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= cur.Stop {
			if next.Stop > cur.Stop {
				cur.Stop = next.Stop
			}
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}

// Segments splits text into overlap and unmarked segments, left to right.
// spans must be merged. Text without spans is a single unmarked segment;
// empty text has no segments.
func Segments(text string, spans []domain.Span) []domain.Segment {
	if text == "" {
		return nil
	}
	var segs []domain.Segment
	cursor := 0
	for _, s := range spans {
		start, stop := clamp(s.Start, len(text)), clamp(s.Stop, len(text))
		if start < cursor {
			start = cursor
		}
		if stop <= start {
			continue
		}
		if start > cursor {
			segs = append(segs, domain.Segment{Kind: domain.SegmentUnmarked, Text: text[cursor:start]})
		}
		segs = append(segs, domain.Segment{Kind: domain.SegmentOverlap, Text: text[start:stop]})
		cursor = stop
	}
	if cursor < len(text) {
		segs = append(segs, domain.Segment{Kind: domain.SegmentUnmarked, Text: text[cursor:]})
	}
	return segs
}

// RuneSpans converts merged byte spans over text into character offsets,
// the unit reported to callers. The result is never nil.
func RuneSpans(text string, spans []domain.Span) []domain.Span {
	out := make([]domain.Span, 0, len(spans))
	for _, s := range spans {
		start, stop := clamp(s.Start, len(text)), clamp(s.Stop, len(text))
		out = append(out, domain.Span{
			Start: utf8.RuneCountInString(text[:start]),
			Stop:  utf8.RuneCountInString(text[:stop]),
		})
	}
	return out
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
