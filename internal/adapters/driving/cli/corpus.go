package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

var corpusFormat string

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the corpus",
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Args:  cobra.NoArgs,
	RunE:  runCorpusStats,
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runCorpusList,
}

var corpusShowCmd = &cobra.Command{
	Use:   "show <source>",
	Short: "Print the sentences of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusShow,
}

func init() {
	corpusStatsCmd.Flags().StringVar(&corpusFormat, "format", formatText, "output format: text, json or yaml")
	corpusCmd.AddCommand(corpusStatsCmd)
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusShowCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusStats(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return notConfigured("corpus")
	}
	if err := validateFormat(corpusFormat); err != nil {
		return err
	}

	stats, err := corpusService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get corpus stats: %w", err)
	}

	switch corpusFormat {
	case formatJSON:
		return writeJSON(cmd, stats)
	case formatYAML:
		return writeYAML(cmd, stats)
	}

	cmd.Println("Corpus")
	cmd.Println("======")
	cmd.Printf("  Documents:  %d\n", stats.Documents)
	cmd.Printf("  Sentences:  %d\n", stats.Sentences)
	cmd.Printf("  Failed:     %d\n", stats.Failed)
	if stats.Model != "" {
		cmd.Printf("  Model:      %s\n", stats.Model)
	}
	if stats.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", stats.Dimensions)
	}
	return nil
}

func runCorpusList(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return notConfigured("corpus")
	}

	docs, err := corpusService.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	cmd.Printf("%-5s %-40s %9s  %s\n", "#", "SOURCE", "SENTENCES", "INGESTED")
	for _, doc := range docs {
		cmd.Printf("%-5d %-40s %9d  %s\n",
			doc.Ordinal, truncate(doc.Source, 40), doc.SentenceCount, doc.IngestedAt.Local().Format("2006-01-02 15:04"))
		if doc.Failure != "" {
			cmd.Printf("      failed: %s\n", doc.Failure)
		}
	}
	return nil
}

func runCorpusShow(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return notConfigured("corpus")
	}

	sentences, err := corpusService.Sentences(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("source %q has not been ingested", args[0])
		}
		return fmt.Errorf("failed to get sentences: %w", err)
	}

	if len(sentences) == 0 {
		cmd.Printf("%s has no sentences.\n", args[0])
		return nil
	}
	for i, s := range sentences {
		cmd.Printf("%4d  %s\n", i, s)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
