package mcp

import (
	"context"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// mockCheckService is a mock implementation of driving.CheckService.
type mockCheckService struct {
	report  *domain.Report
	err     error
	gotText string
	gotTopK int
}

func (m *mockCheckService) Check(ctx context.Context, text string) (*domain.Report, error) {
	return m.CheckTopK(ctx, text, 0)
}

func (m *mockCheckService) CheckTopK(_ context.Context, text string, topK int) (*domain.Report, error) {
	m.gotText = text
	m.gotTopK = topK
	return m.report, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result *domain.IngestResult
	err    error
	calls  []string
}

func (m *mockIngestService) IngestText(_ context.Context, source, _ string) (*domain.IngestResult, error) {
	m.calls = append(m.calls, "text:"+source)
	return m.result, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*domain.IngestResult, error) {
	m.calls = append(m.calls, "file:"+path)
	return m.result, m.err
}

func (m *mockIngestService) IngestURL(_ context.Context, url string) (*domain.IngestResult, error) {
	m.calls = append(m.calls, "url:"+url)
	return m.result, m.err
}

func (m *mockIngestService) IngestDirectory(_ context.Context, dir string) (*domain.IngestResult, error) {
	m.calls = append(m.calls, "dir:"+dir)
	return m.result, m.err
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	stats     *domain.CorpusStats
	documents []domain.Document
	sentences map[string][]string
	err       error
}

func (m *mockCorpusService) Stats(_ context.Context) (*domain.CorpusStats, error) {
	return m.stats, m.err
}

func (m *mockCorpusService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockCorpusService) Sentences(_ context.Context, source string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sentences[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
