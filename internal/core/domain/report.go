package domain

import "time"

// Span is a half-open [Start, Stop) range within a sentence's original text.
// Spans in a SentenceReport count characters (runes), not bytes.
type Span struct {
	Start int `json:"start" yaml:"start"`
	Stop  int `json:"stop" yaml:"stop"`
}

// Len returns the span width.
func (s Span) Len() int {
	if s.Stop < s.Start {
		return 0
	}
	return s.Stop - s.Start
}

// SegmentKind classifies a rendered piece of a query sentence.
type SegmentKind string

// Segment kinds.
const (
	// SegmentOverlap marks text matching corpus content.
	SegmentOverlap SegmentKind = "overlap"

	// SegmentUnmarked marks text with no corpus match.
	SegmentUnmarked SegmentKind = "unmarked"
)

// Segment is a contiguous, classified piece of a sentence.
type Segment struct {
	Kind SegmentKind `json:"kind" yaml:"kind"`
	Text string      `json:"text" yaml:"text"`
}

// PhraseMatch is a vocabulary phrase present in a query sentence.
type PhraseMatch struct {
	Phrase string  `json:"phrase" yaml:"phrase"`
	Weight float64 `json:"weight" yaml:"weight"`

	// Located is false when the phrase could not be found in the original text.
	Located bool `json:"located" yaml:"located"`
}

// SentenceReport is the highlight result for one query sentence.
type SentenceReport struct {
	Text         string        `json:"text" yaml:"text"`
	Spans        []Span        `json:"spans" yaml:"spans"`
	Segments     []Segment     `json:"segments" yaml:"segments"`
	Phrases      []PhraseMatch `json:"phrases,omitempty" yaml:"phrases,omitempty"`
	OverlapChars int           `json:"overlap_chars" yaml:"overlap_chars"`
	TotalChars   int           `json:"total_chars" yaml:"total_chars"`
}

// Highlight is the per-sentence output of the overlap engine plus the
// aggregate percentage over all sentences.
type Highlight struct {
	Sentences  []SentenceReport `json:"sentences" yaml:"sentences"`
	Percentage float64          `json:"percentage" yaml:"percentage"`
}

// Candidate is a corpus sentence selected by the retriever.
type Candidate struct {
	Position int         `json:"position" yaml:"position"`
	Source   string      `json:"source" yaml:"source"`
	Ref      SentenceRef `json:"ref" yaml:"ref"`
	Score    float64     `json:"score" yaml:"score"`
	Text     string      `json:"text" yaml:"text"`
}

// Report is the result of checking a query against the corpus.
type Report struct {
	Highlight `yaml:",inline"`

	// Candidates are the retrieved corpus sentences, best first.
	Candidates []Candidate `json:"candidates" yaml:"candidates"`

	// CorpusSentences is the corpus size the query was checked against.
	CorpusSentences int `json:"corpus_sentences" yaml:"corpus_sentences"`

	// Duration is the wall time of the check.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
