// Package docx extracts paragraph text from Office Open XML documents.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// MIMEType is the content type of DOCX files.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ErrNoDocumentPart is returned when the archive lacks word/document.xml.
var ErrNoDocumentPart = errors.New("docx: word/document.xml not found")

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "docx"
}

// SupportedTypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedTypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract opens the archive and joins its paragraphs with blank lines.
func (e *Extractor) Extract(_ context.Context, path, _ string) domain.Extraction {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return domain.ExtractionFailed(fmt.Errorf("open docx %s: %w", path, err))
	}
	defer reader.Close()

	text, err := documentText(&reader.Reader)
	if err != nil {
		return domain.ExtractionFailed(err)
	}
	return domain.ExtractionOK(text)
}

// documentText extracts text from word/document.xml.
func documentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document part: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document part: %w", err)
		}
		return parseDocumentXML(content)
	}
	return "", ErrNoDocumentPart
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []string   `xml:"t"`
	Tabs []struct{} `xml:"tab"`
}

func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document part: %w", err)
	}

	paras := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t)
			}
			if len(r.Tabs) > 0 {
				b.WriteByte(' ')
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			paras = append(paras, s)
		}
	}
	return strings.Join(paras, "\n\n"), nil
}
