package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/splitter/sentences"
)

// Stage names.
const (
	StageSentences = "sentences"
	StageTrim      = "trim"
	StageMinLength = "min_length"
)

// DefaultStages is the stage order used when none is configured.
var DefaultStages = []string{StageSentences, StageTrim, StageMinLength}

// RegisterDefaults registers all built-in stages with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(StageSentences, buildSentences)
	r.Register(StageTrim, func(map[string]any) (driven.SentenceStage, error) { return trimStage{}, nil })
	r.Register(StageMinLength, buildMinLength)
}

// NewDefault returns the default pipeline: sentence detection, trimming and
// dropping fragments shorter than minLength runes.
func NewDefault(minLength int) *Pipeline {
	r := NewRegistry()
	RegisterDefaults(r)
	p, _ := r.BuildPipeline(DefaultStages, map[string]map[string]any{
		StageMinLength: {"runes": minLength},
	})
	return p
}

// buildSentences supports:
//   - paragraph_breaks (bool): treat blank lines as boundaries (default: true)
//   - abbreviations ([]string): extra abbreviations that never end a sentence
func buildSentences(cfg map[string]any) (driven.SentenceStage, error) {
	var opts []sentences.Option
	if v, ok := cfg["paragraph_breaks"].(bool); ok {
		opts = append(opts, sentences.WithParagraphBreaks(v))
	}
	switch v := cfg["abbreviations"].(type) {
	case []string:
		opts = append(opts, sentences.WithAbbreviations(v...))
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				opts = append(opts, sentences.WithAbbreviations(s))
			}
		}
	}
	return sentences.New(opts...), nil
}

// buildMinLength supports:
//   - runes (int): minimum sentence length in runes (default: 1)
func buildMinLength(cfg map[string]any) (driven.SentenceStage, error) {
	n := getIntFromConfig(cfg, "runes")
	if n < 1 {
		n = 1
	}
	return minLengthStage{runes: n}, nil
}

type trimStage struct{}

func (trimStage) Name() string { return StageTrim }

func (trimStage) Process(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type minLengthStage struct {
	runes int
}

func (minLengthStage) Name() string { return StageMinLength }

func (m minLengthStage) Process(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if utf8.RuneCountInString(s) >= m.runes {
			out = append(out, s)
		}
	}
	return out
}

// getIntFromConfig extracts an int from generic config, accepting the
// numeric types TOML and JSON decoding produce.
func getIntFromConfig(cfg map[string]any, key string) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
