// Package domain defines the core business entities for overlap.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - Document: an ingested source with its sentence count and ordinal
//   - CorpusSnapshot: the flat sentence list, sentence index and embedding matrix
//   - Span, Segment, SentenceReport: highlight output for one query sentence
//   - Report: the result of checking a query against the corpus
//   - Extraction: extracted text or the reason extraction failed
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
