package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Add sources to the corpus",
	Long: `Add source documents to the corpus.

A source is identified by its name (the file name for files and URLs). A
source that was ingested before is skipped, even if its content changed.`,
}

var ingestTextCmd = &cobra.Command{
	Use:   "text <source> [text]",
	Short: "Add raw text under a source name",
	Long: `Add raw text under a source name. The text is read from standard input
when it is not given as an argument.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIngestText,
}

var ingestFileCmd = &cobra.Command{
	Use:   "file <path>...",
	Short: "Add one or more files",
	Long: `Extract and add files. Plain text, Markdown, HTML, PDF (via pdftotext)
and DOCX are supported. A file whose text cannot be extracted is still
recorded, with zero sentences and the failure reason.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngestFile,
}

var ingestURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Download a source and add it",
	Long: `Download a source into the sources directory and add it. The file is
named after the last segment of the URL path.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestURL,
}

var ingestDirCmd = &cobra.Command{
	Use:   "dir [path]",
	Short: "Add every new file in a directory",
	Long: `Add every regular file in a directory that has not been ingested yet,
in lexical order. Defaults to the configured sources directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngestDir,
}

func init() {
	ingestCmd.AddCommand(ingestTextCmd)
	ingestCmd.AddCommand(ingestFileCmd)
	ingestCmd.AddCommand(ingestURLCmd)
	ingestCmd.AddCommand(ingestDirCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngestText(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	var text string
	if len(args) == 2 {
		text = args[1]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading standard input: %w", err)
		}
		text = string(data)
	}

	result, err := ingestService.IngestText(cmd.Context(), args[0], text)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printIngestResult(cmd, result)
	return nil
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	total := &domain.IngestResult{}
	var errs []string
	for _, path := range args {
		result, err := ingestService.IngestFile(cmd.Context(), path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		mergeIngestResult(total, result)
	}

	printIngestResult(cmd, total)
	if len(errs) > 0 {
		return fmt.Errorf("ingest failed for %d file(s):\n  %s", len(errs), strings.Join(errs, "\n  "))
	}
	return nil
}

func runIngestURL(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	result, err := ingestService.IngestURL(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrFetchFailed) {
			return fmt.Errorf("download failed, corpus unchanged: %w", err)
		}
		return fmt.Errorf("ingest failed: %w", err)
	}
	printIngestResult(cmd, result)
	return nil
}

func runIngestDir(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	var dir string
	if len(args) == 1 {
		dir = args[0]
	}

	result, err := ingestService.IngestDirectory(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printIngestResult(cmd, result)
	return nil
}

func mergeIngestResult(dst, src *domain.IngestResult) {
	dst.Added = append(dst.Added, src.Added...)
	dst.Skipped = append(dst.Skipped, src.Skipped...)
	dst.Failed = append(dst.Failed, src.Failed...)
	dst.Sentences += src.Sentences
}

func printIngestResult(cmd *cobra.Command, result *domain.IngestResult) {
	cmd.Printf("Added %d document(s), %d sentence(s)\n", len(result.Added), result.Sentences)
	for _, doc := range result.Added {
		if doc.Failure != "" {
			continue
		}
		cmd.Printf("  + %s (%d sentences)\n", doc.Source, doc.SentenceCount)
	}
	for _, f := range result.Failed {
		cmd.Printf("  ! %s: %s\n", f.Source, f.Reason)
	}
	for _, source := range result.Skipped {
		cmd.Printf("  = %s (already processed)\n", source)
	}
}
