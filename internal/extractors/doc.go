// Package extractors selects and runs the text extractors that turn source
// files (plain text, Markdown, HTML, PDF, DOCX) into raw document text.
//
// Each extractor declares the MIME types it handles and a priority. The
// Registry picks the highest priority match for a file's detected type.
package extractors
