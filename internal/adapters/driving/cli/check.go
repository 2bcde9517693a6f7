package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// highlightColor is ANSI yellow.
const highlightColor = lipgloss.Color("3")

var (
	checkFile       string
	checkFormat     string
	checkTopK       int
	checkNoColor    bool
	checkCandidates int
)

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check text for overlap with the corpus",
	Long: `Check text against the corpus and print it with the overlapping parts
highlighted, preceded by the overlap percentage.

The text is taken from the arguments, from --file, or from standard input.
Highlights are yellow on a terminal and marked with [brackets] otherwise.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read the text from a file")
	checkCmd.Flags().StringVar(&checkFormat, "format", formatText, "output format: text, json or yaml")
	checkCmd.Flags().IntVarP(&checkTopK, "top-k", "k", 0, "corpus sentences to compare against (0 = configured default)")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable coloured output")
	checkCmd.Flags().IntVar(&checkCandidates, "candidates", 0, "also list the N best matching corpus sentences")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkService == nil {
		return notConfigured("check")
	}
	if err := validateFormat(checkFormat); err != nil {
		return err
	}

	text, err := readQuery(cmd, args)
	if err != nil {
		return err
	}

	report, err := checkService.CheckTopK(cmd.Context(), text, checkTopK)
	if err != nil {
		if errors.Is(err, domain.ErrNoCorpus) {
			return fmt.Errorf("%w: run 'overlap ingest' first", err)
		}
		return fmt.Errorf("check failed: %w", err)
	}

	switch checkFormat {
	case formatJSON:
		return writeJSON(cmd, report)
	case formatYAML:
		return writeYAML(cmd, report)
	}

	renderReport(cmd.OutOrStdout(), report, highlighter(cmd.OutOrStdout(), checkNoColor))
	if checkCandidates > 0 {
		renderCandidates(cmd.OutOrStdout(), report.Candidates, checkCandidates)
	}
	return nil
}

// readQuery resolves the text to check from --file, the arguments or stdin.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if checkFile != "" {
		if len(args) > 0 {
			return "", errors.New("give the text either as arguments or with --file, not both")
		}
		data, err := os.ReadFile(checkFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", checkFile, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no text to check: pass it as an argument, with --file, or on standard input")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	return string(data), nil
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q: use text, json or yaml", format)
	}
}

// highlighter returns the function that renders an overlapping segment.
// Terminals get yellow text; anything else gets brackets.
func highlighter(w io.Writer, noColor bool) func(string) string {
	if !noColor && isTerminal(w) {
		style := lipgloss.NewRenderer(w).NewStyle().Foreground(highlightColor)
		return func(s string) string { return style.Render(s) }
	}
	return func(s string) string { return "[" + s + "]" }
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderReport(w io.Writer, report *domain.Report, mark func(string) string) {
	fmt.Fprintf(w, "Overlap percentage %s%%\n", formatPercentage(report.Percentage))
	if len(report.Sentences) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, sentence := range report.Sentences {
		fmt.Fprintln(w, renderSentence(sentence, mark))
	}
}

func renderSentence(sentence domain.SentenceReport, mark func(string) string) string {
	if len(sentence.Segments) == 0 {
		return sentence.Text
	}
	var b strings.Builder
	for _, seg := range sentence.Segments {
		if seg.Kind == domain.SegmentOverlap {
			b.WriteString(mark(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func renderCandidates(w io.Writer, candidates []domain.Candidate, limit int) {
	if len(candidates) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Closest corpus sentences:")
	for i, c := range candidates {
		if i == limit {
			break
		}
		fmt.Fprintf(w, "  [%d] %.3f  %s #%d\n", i+1, c.Score, c.Source, c.Ref.Ordinal)
		fmt.Fprintf(w, "      %s\n", c.Text)
	}
}

// formatPercentage prints at most two decimals and no trailing zeros.
func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// writeJSON and writeYAML write to stdout so output can be piped.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeYAML(cmd *cobra.Command, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
