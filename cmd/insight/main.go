// Command insight scores the sentiment of texts from the command line or
// over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tsawler/insight"
	"github.com/tsawler/insight/internal/app"
	"github.com/tsawler/insight/internal/config"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "insight",
		Short:         "Dictionary-based sentiment analysis",
		Long:          `Insight classifies texts as positive, negative or neutral with a Naive Bayes model over word lists.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to the YAML config file (default $INSIGHT_CONFIG or ./insight.yaml)")
	rootCmd.PersistentFlags().String("lexicon", "", "lexicon directory, YAML file or msgpack bundle (default: embedded English)")
	rootCmd.PersistentFlags().String("lang", "", "language of the lexicon (en|fr|pt|es|de)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newScoreCmd(),
		newCategoriseCmd(),
		newAnalyzeCmd(),
		newEvaluateCmd(),
		newCompileCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// main builds the command tree and executes it. If command execution returns
// an error, it is printed and the process exits with status code 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the persistent flags on top.
// Commands other than serve default to warn-level logging.
func loadConfig(cmd *cobra.Command, defaultLevel string) (*config.Config, *slog.Logger, error) {
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if lexicon, _ := flags.GetString("lexicon"); lexicon != "" {
		cfg.Lexicon.Path = lexicon
	}
	if lang, _ := flags.GetString("lang"); lang != "" {
		cfg.Lexicon.Language = lang
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		cfg.Log.Level = level
	} else if defaultLevel != "" {
		cfg.Log.Level = defaultLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: validate: %w", err)
	}

	configureColor(cmd)
	return cfg, app.NewLogger(cfg.Log), nil
}

// loadRouter loads the configured lexicons.
func loadRouter(cmd *cobra.Command) (*insight.Multilingual, error) {
	cfg, logger, err := loadConfig(cmd, "warn")
	if err != nil {
		return nil, err
	}
	return app.NewRouter(cfg, logger)
}

func configureColor(cmd *cobra.Command) {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
