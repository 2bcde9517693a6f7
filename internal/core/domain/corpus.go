package domain

import (
	"fmt"
	"time"
)

// SentenceRef locates a flat corpus sentence inside its document.
type SentenceRef struct {
	// Document is the corpus-assigned document ordinal.
	Document int `json:"document" yaml:"document"`

	// Ordinal is the sentence position within the document.
	Ordinal int `json:"ordinal" yaml:"ordinal"`
}

// Sentence is one corpus sentence together with its embedding row.
type Sentence struct {
	// Position is the index in the flat sentence list and embedding matrix.
	Position int

	// Ref maps the flat position back to (document, ordinal).
	Ref SentenceRef

	// Text is the sentence as produced by the splitter.
	Text string

	// Embedding is row Position of the embedding matrix.
	Embedding []float32
}

// Document is an ingested source. Its sentences live in the flat corpus list.
type Document struct {
	// Ordinal is assigned by the corpus, increases monotonically and is never reused.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// ID is an opaque unique row identifier.
	ID string `json:"id" yaml:"id"`

	// Source is the stable source identifier (usually the file name).
	Source string `json:"source" yaml:"source"`

	// SentenceCount is the number of sentences contributed to the corpus.
	SentenceCount int `json:"sentence_count" yaml:"sentence_count"`

	// Failure records why extraction produced no text, if it failed.
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`

	// IngestedAt is when the document was added.
	IngestedAt time.Time `json:"ingested_at" yaml:"ingested_at"`
}

// SourceText is raw text keyed by its source identifier, ready for ingestion.
type SourceText struct {
	// Source is the stable source identifier.
	Source string

	// Text is the extracted raw text. It may be empty.
	Text string

	// Failure is carried over from extraction when Text is empty because
	// extraction failed.
	Failure string
}

// CorpusAppend is one staged, all-or-nothing addition to the corpus.
type CorpusAppend struct {
	// Documents are the newly processed documents, ordinals ascending.
	Documents []Document

	// Sentences are the new flat sentences, positions contiguous and ascending.
	Sentences []Sentence

	// Model is the embedding model that produced the rows.
	Model string

	// Dimensions is the embedding length of every row.
	Dimensions int
}

// Empty reports whether the append carries no documents.
func (a *CorpusAppend) Empty() bool {
	return len(a.Documents) == 0
}

// CorpusSnapshot is a read-only view of the corpus index.
// Sentences, Refs and Embeddings are aligned row by row.
type CorpusSnapshot struct {
	// Documents in ordinal order.
	Documents []Document

	// Sentences is the flat sentence list.
	Sentences []string

	// Refs is the sentence index: flat position to (document, ordinal).
	Refs []SentenceRef

	// Embeddings is the embedding matrix, one row per flat sentence.
	Embeddings [][]float32

	// Model is the embedding model recorded for the corpus.
	Model string

	// Dims is the embedding dimension recorded for the corpus, 0 when unknown.
	Dims int
}

// Len returns the number of flat sentences.
func (s *CorpusSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Sentences)
}

// Dimensions returns the embedding dimension of the corpus.
func (s *CorpusSnapshot) Dimensions() int {
	if s == nil {
		return 0
	}
	if s.Dims > 0 {
		return s.Dims
	}
	if len(s.Embeddings) > 0 {
		return len(s.Embeddings[0])
	}
	return 0
}

// NextOrdinal returns the ordinal the next ingested document receives.
func (s *CorpusSnapshot) NextOrdinal() int {
	if s == nil || len(s.Documents) == 0 {
		return 0
	}
	return s.Documents[len(s.Documents)-1].Ordinal + 1
}

// Processed reports whether a document with the given source identifier
// has been ingested.
func (s *CorpusSnapshot) Processed(source string) bool {
	if s == nil {
		return false
	}
	for i := range s.Documents {
		if s.Documents[i].Source == source {
			return true
		}
	}
	return false
}

// DocumentByOrdinal returns the document with the given ordinal.
func (s *CorpusSnapshot) DocumentByOrdinal(ordinal int) (Document, bool) {
	if s == nil {
		return Document{}, false
	}
	// Ordinals are dense when the corpus was built by append.
	if ordinal >= 0 && ordinal < len(s.Documents) && s.Documents[ordinal].Ordinal == ordinal {
		return s.Documents[ordinal], true
	}
	for _, d := range s.Documents {
		if d.Ordinal == ordinal {
			return d, true
		}
	}
	return Document{}, false
}

// Validate checks the alignment invariant between sentences, embedding rows,
// the sentence index and per-document sentence counts.
func (s *CorpusSnapshot) Validate() error {
	if s == nil {
		return nil
	}
	n := len(s.Sentences)
	if len(s.Embeddings) != n || len(s.Refs) != n {
		return fmt.Errorf("%w: %d sentences, %d embedding rows, %d index entries",
			ErrCorpusInconsistent, n, len(s.Embeddings), len(s.Refs))
	}
	total := 0
	for _, d := range s.Documents {
		total += d.SentenceCount
	}
	if total != n {
		return fmt.Errorf("%w: documents account for %d sentences, corpus has %d",
			ErrCorpusInconsistent, total, n)
	}
	dims := s.Dimensions()
	for i, row := range s.Embeddings {
		if len(row) != dims {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(row), dims)
		}
	}
	return nil
}

// CorpusStats summarises the corpus.
type CorpusStats struct {
	Documents  int    `json:"documents" yaml:"documents"`
	Sentences  int    `json:"sentences" yaml:"sentences"`
	Dimensions int    `json:"dimensions" yaml:"dimensions"`
	Model      string `json:"model" yaml:"model"`
	Failed     int    `json:"failed" yaml:"failed"`
}

// SourceFailure records a source that could not contribute text.
type SourceFailure struct {
	Source string `json:"source" yaml:"source"`
	Reason string `json:"reason" yaml:"reason"`
}

// IngestResult describes the outcome of one ingestion call.
type IngestResult struct {
	// Added lists documents newly written to the corpus.
	Added []Document `json:"added" yaml:"added"`

	// Skipped lists source identifiers that were already processed.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Failed lists sources whose extraction failed. They are still
	// recorded as processed with zero sentences.
	Failed []SourceFailure `json:"failed,omitempty" yaml:"failed,omitempty"`

	// Sentences is the number of sentences appended.
	Sentences int `json:"sentences" yaml:"sentences"`
}
