package overlap

import (
	"math"
	"unicode/utf8"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// Highlight marks the parts of each query sentence that share a phrase with
// the candidate sentences and computes the overall overlap percentage.
// Only phrases seen in candidates can produce highlights. Output order
// follows query order.
func Highlight(query, candidates []string) domain.Highlight {
	model := Fit(NormalizeAll(candidates))

	out := domain.Highlight{Sentences: make([]domain.SentenceReport, 0, len(query))}
	overlapChars, totalChars := 0, 0
	for _, sentence := range query {
		vec := model.Transform(Normalize(sentence))
		report := highlightSentence(sentence, vec, model.Vocabulary())
		overlapChars += report.OverlapChars
		totalChars += report.TotalChars
		out.Sentences = append(out.Sentences, report)
	}
	out.Percentage = Percentage(overlapChars, totalChars)
	return out
}

// highlightSentence locates the phrases of vec in the original sentence via vocab.
func highlightSentence(sentence string, vec Vector, vocab *Vocabulary) domain.SentenceReport {
	report := domain.SentenceReport{
		Text:       sentence,
		TotalChars: utf8.RuneCountInString(sentence),
	}

	var found []domain.Span
	for k, idx := range vec.Indices {
		if vec.Weights[k] <= 0 {
			continue
		}
		phrase, ok := vocab.Phrase(idx)
		if !ok {
			continue
		}
		span, located := Locate(sentence, phrase)
		report.Phrases = append(report.Phrases, domain.PhraseMatch{
			Phrase:  phrase,
			Weight:  vec.Weights[k],
			Located: located,
		})
		if located {
			found = append(found, span)
		}
	}

	merged := Merge(found)
	report.Segments = Segments(sentence, merged)
	report.Spans = RuneSpans(sentence, merged)
	for _, s := range report.Spans {
		report.OverlapChars += s.Len()
	}
	return report
}

// Percentage returns 100*part/total rounded to two decimals, or 0 when
// total is zero.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
