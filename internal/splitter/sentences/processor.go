// Package sentences provides a rule-based sentence boundary detector.
package sentences

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Name is the stage name.
const Name = "sentences"

// defaultAbbreviations never end a sentence when followed by a period.
var defaultAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "vs", "etc",
	"e.g", "i.e", "cf", "al", "fig", "no", "vol", "inc", "ltd", "co",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept",
	"oct", "nov", "dec", "approx", "dept", "est",
}

// Processor splits text into sentences.
type Processor struct {
	abbreviations   map[string]struct{}
	paragraphBreaks bool
}

// Option configures the Processor.
type Option func(*Processor)

// WithParagraphBreaks controls whether a blank line ends a sentence.
func WithParagraphBreaks(enabled bool) Option {
	return func(p *Processor) {
		p.paragraphBreaks = enabled
	}
}

// WithAbbreviations adds abbreviations (without the trailing period).
func WithAbbreviations(abbrevs ...string) Option {
	return func(p *Processor) {
		for _, a := range abbrevs {
			a = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(a)), ".")
			if a != "" {
				p.abbreviations[a] = struct{}{}
			}
		}
	}
}

// New creates a sentence processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		abbreviations:   make(map[string]struct{}, len(defaultAbbreviations)),
		paragraphBreaks: true,
	}
	for _, a := range defaultAbbreviations {
		p.abbreviations[a] = struct{}{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the stage name.
func (p *Processor) Name() string {
	return Name
}

// Process splits every input into sentences.
func (p *Processor) Process(in []string) []string {
	var out []string
	for _, text := range in {
		out = append(out, p.Split(text)...)
	}
	return out
}

// Split returns the sentences of text, trimmed of surrounding whitespace.
func (p *Processor) Split(text string) []string {
	var out []string
	emit := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		if r == '\n' && p.paragraphBreaks {
			if end, ok := blankLine(text, i); ok {
				emit(text[start:i])
				start, i = end, end
				continue
			}
		}

		if !isTerminator(r) {
			i += size
			continue
		}

		// Consume the run of terminators and closing marks.
		end := i + size
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !isTerminator(next) && !isCloser(next) {
				break
			}
			end += n
		}

		if p.isBoundary(text, i, end) {
			emit(text[start:end])
			start = end
		}
		i = end
	}
	emit(text[start:])
	return out
}

// isBoundary decides whether the terminator run text[at:end] ends a sentence.
func (p *Processor) isBoundary(text string, at, end int) bool {
	if end == len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	if !unicode.IsSpace(next) {
		return false
	}
	if text[at] != '.' || end-at != 1 {
		return true
	}

	word := wordBefore(text, at)
	if _, ok := p.abbreviations[strings.ToLower(word)]; ok {
		return false
	}
	// Single-letter initials such as "J. Smith".
	if utf8.RuneCountInString(word) == 1 {
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(r) {
			return false
		}
	}
	// A following lowercase word continues the sentence.
	rest := strings.TrimLeftFunc(text[end:], unicode.IsSpace)
	if r, _ := utf8.DecodeRuneInString(rest); unicode.IsLower(r) {
		return false
	}
	return true
}

// wordBefore returns the token ending at byte offset at, without leading
// opening marks.
func wordBefore(text string, at int) string {
	begin := at
	for begin > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:begin])
		if unicode.IsSpace(r) {
			break
		}
		begin -= size
	}
	return strings.TrimLeft(text[begin:at], "\"'([{“‘")
}

// blankLine reports whether a blank line starts at the newline at offset i
// and returns the offset just past it.
func blankLine(text string, i int) (int, bool) {
	j := i + 1
	newlines := 1
	for j < len(text) {
		switch text[j] {
		case '\n':
			newlines++
		case ' ', '\t', '\r':
		default:
			return j, newlines > 1
		}
		j++
	}
	return j, newlines > 1
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '。', '！', '？':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '”', '’', '»':
		return true
	}
	return false
}
