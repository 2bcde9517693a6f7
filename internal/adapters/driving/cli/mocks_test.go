package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/overlap-cli/internal/core/services"
	"github.com/custodia-labs/overlap-cli/internal/connectors/filesystem"
)

// mockIngestService records calls and returns canned results.
type mockIngestService struct {
	mu    sync.Mutex
	calls []string

	result *domain.IngestResult
	err    error
	// dirFunc overrides IngestDirectory.
	dirFunc func(ctx context.Context, dir string) (*domain.IngestResult, error)
}

func (m *mockIngestService) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockIngestService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockIngestService) reply() (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.IngestResult{}, nil
}

func (m *mockIngestService) IngestText(_ context.Context, source, text string) (*domain.IngestResult, error) {
	m.record("text:" + source + ":" + text)
	return m.reply()
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*domain.IngestResult, error) {
	m.record("file:" + path)
	return m.reply()
}

func (m *mockIngestService) IngestURL(_ context.Context, url string) (*domain.IngestResult, error) {
	m.record("url:" + url)
	return m.reply()
}

func (m *mockIngestService) IngestDirectory(ctx context.Context, dir string) (*domain.IngestResult, error) {
	m.record("dir:" + dir)
	if m.dirFunc != nil {
		return m.dirFunc(ctx, dir)
	}
	return m.reply()
}

// mockCheckService returns a fixed report and records the query.
type mockCheckService struct {
	report *domain.Report
	err    error
	text   string
	topK   int
}

func (m *mockCheckService) Check(ctx context.Context, text string) (*domain.Report, error) {
	return m.CheckTopK(ctx, text, 0)
}

func (m *mockCheckService) CheckTopK(_ context.Context, text string, topK int) (*domain.Report, error) {
	m.text = text
	m.topK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// mockCorpusService serves a fixed document list.
type mockCorpusService struct {
	docs      []domain.Document
	sentences map[string][]string
	err       error
}

func (m *mockCorpusService) Stats(_ context.Context) (*domain.CorpusStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &domain.CorpusStats{Documents: len(m.docs), Model: "hashing-v1", Dimensions: 384}
	for _, d := range m.docs {
		stats.Sentences += d.SentenceCount
		if d.Failure != "" {
			stats.Failed++
		}
	}
	return stats, nil
}

func (m *mockCorpusService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
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

var (
	_ driving.IngestService = (*mockIngestService)(nil)
	_ driving.CheckService  = (*mockCheckService)(nil)
	_ driving.CorpusService = (*mockCorpusService)(nil)
)

// testServices is the set installed by setupTestServices.
type testServices struct {
	ingest   *mockIngestService
	check    *mockCheckService
	corpus   *mockCorpusService
	settings *services.SettingsService
	config   *memory.ConfigStore
}

// setupTestServices installs mock services and restores globals and flags
// when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")

	config := memory.NewConfigStore()
	ts := &testServices{
		ingest:   &mockIngestService{},
		check:    &mockCheckService{report: sampleReport()},
		corpus:   &mockCorpusService{},
		settings: services.NewSettingsService(config, "/tmp/overlap/sources"),
		config:   config,
	}

	SetServices(&Services{
		Ingest:     ts.ingest,
		Check:      ts.check,
		Corpus:     ts.corpus,
		Settings:   ts.settings,
		ConfigPath: "/tmp/overlap/config.toml",
		SourcesDir: t.TempDir(),
	})
	t.Cleanup(func() {
		SetServices(nil)
		resetFlags()
	})
	return ts
}

func resetFlags() {
	checkFile = ""
	checkFormat = formatText
	checkTopK = 0
	checkNoColor = false
	checkCandidates = 0
	corpusFormat = formatText
	configFormat = formatText
	watchDebounce = filesystem.DefaultDebounce
}

// executeCommand runs the root command with args and stdin and returns
// everything written to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleReport() *domain.Report {
	return &domain.Report{
		Highlight: domain.Highlight{
			Sentences: []domain.SentenceReport{{
				Text: "The quick brown fox jumps.",
				Spans: []domain.Span{{Start: 0, Stop: 19}},
				Segments: []domain.Segment{
					{Kind: domain.SegmentOverlap, Text: "The quick brown fox"},
					{Kind: domain.SegmentUnmarked, Text: " jumps."},
				},
				OverlapChars: 19,
				TotalChars:   26,
			}},
			Percentage: 73.08,
		},
		Candidates: []domain.Candidate{
			{Position: 0, Source: "animals.txt", Ref: domain.SentenceRef{Document: 0, Ordinal: 0}, Score: 0.912,
				Text: "The quick brown fox jumps over the lazy dog."},
			{Position: 4, Source: "ml.txt", Ref: domain.SentenceRef{Document: 1, Ordinal: 2}, Score: 0.1,
				Text: "Models need data."},
		},
		CorpusSentences: 12,
	}
}
