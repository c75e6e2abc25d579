package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"prosecheck/internal/checker"
	"prosecheck/internal/config"
	"prosecheck/internal/languagetool"
	"prosecheck/internal/logging"
	"prosecheck/internal/pipeline"
	"prosecheck/internal/report"
)

const afterHelp = `Host, port and language are required unless a config file or the
PROSECHECK_HOST, PROSECHECK_PORT and PROSECHECK_LANGUAGE environment variables
define them. Flags override environment variables, which override the config file.

prosecheck.yaml / prosecheck.toml:
  host                       string
  port                       int
  language                   string
  picky                      bool
  disabled_rules             [string]
  disabled_categories        [string]
  ignore_words               [string]
  concurrency                int
  no_default_disabled_rules  bool`

var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:           "prosecheck [flags] <file-or-dir>...",
		Short:         "Check the prose of Markdown and HTML documents with a LanguageTool server",
		Long:          "Check the prose of Markdown and HTML documents with a LanguageTool server.\n\n" + afterHelp,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	host                   string
	port                   int
	language               string
	disabledRules          []string
	disabledCategories     []string
	ignoreWords            []string
	configPath             string
	picky                  bool
	noDefaultDisabledRules bool
	concurrency            int
	format                 string
	logFormat              string
	changed                string
	debug                  bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", color.New(color.FgRed, color.Bold).Sprint("Error"), err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&host, "host", "H", "", "LanguageTool server URL")
	f.IntVarP(&port, "port", "p", 0, "LanguageTool server port")
	f.StringVarP(&language, "language", "l", "", "Language to check with, e.g. en-US")
	f.StringSliceVar(&disabledRules, "disabled-rules", nil, "LanguageTool rule IDs to disable")
	f.StringSliceVar(&disabledCategories, "disabled-categories", nil, "LanguageTool rule categories to disable")
	f.StringSliceVar(&ignoreWords, "ignore-words", nil, "Words to ignore problems with (case sensitive)")
	f.StringVar(&configPath, "config", "", "Path to config file (looks for prosecheck.yaml, .yml or .toml in the working directory by default)")
	f.BoolVar(&picky, "picky", false, "Enable picky mode")
	f.BoolVar(&noDefaultDisabledRules, "no-default-disabled-rules", false, "Do not disable WHITESPACE_RULE")
	f.IntVar(&concurrency, "concurrency", 0, "Maximum requests in flight per document (0 is unbounded)")
	f.StringVar(&format, "format", string(report.FormatText), "Output format: text or json")
	f.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	f.StringVar(&changed, "changed", "", "Only report problems on lines changed since this git ref")
	f.BoolVar(&debug, "debug", false, "Log syntax trees, paragraphs and LanguageTool responses")
}

// overrides keeps only the flags given on the command line.
func overrides(cmd *cobra.Command) config.Overrides {
	f := cmd.Flags()
	var o config.Overrides
	if f.Changed("host") {
		o.Host = &host
	}
	if f.Changed("port") {
		o.Port = &port
	}
	if f.Changed("language") {
		o.Language = &language
	}
	if f.Changed("picky") {
		o.Picky = &picky
	}
	if f.Changed("disabled-rules") {
		o.DisabledRules = disabledRules
	}
	if f.Changed("disabled-categories") {
		o.DisabledCategories = disabledCategories
	}
	if f.Changed("ignore-words") {
		o.IgnoreWords = ignoreWords
	}
	if f.Changed("concurrency") {
		o.Concurrency = &concurrency
	}
	if f.Changed("no-default-disabled-rules") {
		o.NoDefaultDisabledRules = &noDefaultDisabledRules
	}
	return o
}

func run(cmd *cobra.Command, args []string) error {
	lf, err := logging.ParseFormat(logFormat)
	if err != nil {
		return err
	}
	logger, runID := logging.WithRun(logging.New(os.Stderr, debug, lf))

	cfg, err := config.Load(configPath, overrides(cmd))
	if err != nil {
		return err
	}

	client := languagetool.NewClient(cfg.Host, cfg.Port)
	logger.Debug("run started",
		"id", runID,
		"endpoint", client.Endpoint(),
		"language", cfg.Language,
		"picky", cfg.Picky,
		"disabled_rules", cfg.DisabledRules,
		"disabled_categories", cfg.DisabledCategories,
	)

	chk := checker.New(client, checker.Options{
		Language:           cfg.Language,
		Picky:              cfg.Picky,
		DisabledRules:      cfg.DisabledRules,
		DisabledCategories: cfg.DisabledCategories,
		IgnoreWords:        cfg.IgnoreWords,
		Concurrency:        cfg.Concurrency,
	}, logger)

	// Text goes to stderr, JSON to stdout.
	out := os.Stderr
	if report.Format(format) == report.FormatJSON {
		out = os.Stdout
	}
	renderer, err := report.New(report.Format(format), out, useColor(out))
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(chk, renderer, logger)
	runner.ChangedRef = changed

	_, err = runner.Run(cmd.Context(), args)
	return err
}

func useColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
