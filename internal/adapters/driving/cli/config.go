package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
)

const apiKeySetting = "embedding.api_key"

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the configuration stored in config.toml.

Keys use dotted names such as check.top_k. Run 'overlap config show' to see
every setting and 'overlap config embedding' to choose an embedding provider
interactively.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every setting",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change one setting",
	Long: `Change one setting. The value is validated before it is saved.

Setting embedding.api_key without a value prompts for it without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configPath == "" {
			return errors.New("configuration path not configured")
		}
		cmd.Println(configPath)
		return nil
	},
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Choose the embedding provider",
	Long: `Choose the embedding provider and model interactively.

Changing the provider or model of an existing corpus makes its embeddings
incompatible with new queries. Start a new corpus after switching.`,
	Args: cobra.NoArgs,
	RunE: runConfigEmbedding,
}

func init() {
	for _, c := range []*cobra.Command{configCmd, configShowCmd} {
		c.Flags().StringVar(&configFormat, "format", formatText, "output format: text, json or yaml")
	}
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configPathCmd, configEmbeddingCmd)
	rootCmd.AddCommand(configCmd)
}

// setting is one row of 'config show'. display replaces value in text
// output; hidden rows only appear in 'config get' and structured output.
type setting struct {
	key     string
	value   string
	display string
	hidden  bool
}

// settingRows lists every readable key in display order.
func settingRows(s *domain.AppSettings) []setting {
	e := s.Embedding
	maskedKey, keyDisplay := "", "(not set)"
	if e.APIKey != "" {
		maskedKey = maskAPIKey(e.APIKey)
		keyDisplay = maskedKey
	}
	return []setting{
		{key: "embedding.provider", value: e.Provider.String(), display: e.Provider.Description()},
		{key: "embedding.model", value: e.Model},
		{key: "embedding.base_url", value: e.BaseURL, hidden: e.BaseURL == ""},
		{key: apiKeySetting, value: maskedKey, display: keyDisplay, hidden: !e.Provider.RequiresAPIKey()},
		{key: "embedding.dimensions", value: strconv.Itoa(e.Dimensions),
			hidden: e.Provider != domain.EmbeddingProviderHashing},
		{key: "embedding.rate_limit", value: strconv.FormatFloat(e.RateLimit, 'f', -1, 64),
			display: strconv.FormatFloat(e.RateLimit, 'f', -1, 64) + " req/s", hidden: e.RateLimit <= 0},
		{key: "check.top_k", value: strconv.Itoa(s.Check.TopK)},
		{key: "check.query_batch_size", value: strconv.Itoa(s.Check.QueryBatchSize)},
		{key: "ingest.batch_size", value: strconv.Itoa(s.Ingest.BatchSize)},
		{key: "ingest.sources_dir", value: s.Ingest.SourcesDir},
		{key: "ingest.min_sentence_length", value: strconv.Itoa(s.Ingest.MinSentenceLength)},
		{key: "fetch.timeout_seconds", value: strconv.Itoa(int(s.Fetch.Timeout.Seconds())),
			display: s.Fetch.Timeout.String()},
		{key: "fetch.max_bytes", value: strconv.FormatInt(s.Fetch.MaxBytes, 10)},
	}
}

// settingValue renders the effective value of a dotted key.
func settingValue(s *domain.AppSettings, key string) (string, bool) {
	for _, row := range settingRows(s) {
		if row.key == key {
			return row.value, true
		}
	}
	return "", false
}

func currentSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}
	if err := validateFormat(configFormat); err != nil {
		return err
	}

	rows := settingRows(settings)
	if configFormat != formatText {
		values := make(map[string]string, len(rows))
		for _, row := range rows {
			values[row.key] = row.value
		}
		if configFormat == formatJSON {
			return writeJSON(cmd, values)
		}
		return writeYAML(cmd, values)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	section := ""
	for _, row := range rows {
		if row.hidden {
			continue
		}
		group, name, _ := strings.Cut(row.key, ".")
		if group != section {
			if section != "" {
				fmt.Fprintln(tw)
			}
			fmt.Fprintf(tw, "[%s]\n", group)
			section = group
		}
		value := row.display
		if value == "" {
			value = row.value
		}
		fmt.Fprintf(tw, "  %s\t%s\n", name, value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	cmd.Println()
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'overlap config embedding' to fix it.")
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}
	value, ok := settingValue(settings, args[0])
	if !ok {
		return fmt.Errorf("unknown setting %q", args[0])
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == apiKeySetting:
		value = newPrompter(cmd).secret("Enter API key: ")
		if value == "" {
			return errors.New("API key is required")
		}
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if key == apiKeySetting {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	p := newPrompter(cmd)
	providers := domain.AllEmbeddingProviders()
	labels := make([]string, len(providers))
	for i, provider := range providers {
		labels[i] = provider.Description()
	}
	provider := providers[p.choose("Select Embedding Provider", labels)]
	model := p.ask("Enter model name", domain.DefaultEmbeddingModels()[provider])

	var apiKey string
	if provider.RequiresAPIKey() {
		apiKey = p.secret("Enter API key (empty to use OPENAI_API_KEY): ")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}
	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// prompter reads answers from the command's input. Secrets are read
// without echo when that input is a terminal.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) line() string {
	input, _ := p.in.ReadString('\n') //nolint:errcheck // EOF yields the default answer
	return strings.TrimSpace(input)
}

// ask returns the answer, or def when it is empty.
func (p *prompter) ask(label, def string) string {
	p.cmd.Printf("%s [%s]: ", label, def)
	if answer := p.line(); answer != "" {
		return answer
	}
	return def
}

// choose lists options and returns the chosen index; the first is the default.
func (p *prompter) choose(title string, options []string) int {
	p.cmd.Println(title)
	for i, opt := range options {
		p.cmd.Printf("  %d. %s\n", i+1, opt)
	}
	p.cmd.Print("\nEnter choice [1]: ")
	return parseChoice(p.line(), len(options), 1) - 1
}

func (p *prompter) secret(prompt string) string {
	p.cmd.Print(prompt)
	defer p.cmd.Println()
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if b, err := term.ReadPassword(int(f.Fd())); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return p.line()
}

// parseChoice converts a 1-based menu answer, falling back to def.
func parseChoice(input string, n, def int) int {
	if v, err := strconv.Atoi(input); err == nil && v >= 1 && v <= n {
		return v
	}
	return def
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
