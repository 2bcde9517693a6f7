// Package pdf extracts text from PDF files using the pdftotext tool from
// poppler.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// Tool is the external binary used for extraction.
const Tool = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found: " + InstallInstructions())

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF files.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor that shells out to pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "pdf"
}

// SupportedTypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedTypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract runs pdftotext over every page, joining pages with blank lines.
func (e *Extractor) Extract(ctx context.Context, path, _ string) domain.Extraction {
	out, err := e.runner.Run(ctx, Tool, "-enc", "UTF-8", "-q", path, "-")
	if err != nil {
		return domain.ExtractionFailed(fmt.Errorf("pdftotext failed: %w", err))
	}

	pages := strings.Split(string(out), "\f")
	kept := pages[:0]
	for _, page := range pages {
		if page = strings.TrimSpace(page); page != "" {
			kept = append(kept, page)
		}
	}
	return domain.ExtractionOK(strings.Join(kept, "\n\n"))
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is missing.
func CheckAvailable() error {
	if _, err := exec.LookPath(Tool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions describes how to install pdftotext.
func InstallInstructions() string {
	return "install pdftotext (macOS: brew install poppler, Debian/Ubuntu: apt install poppler-utils)"
}
