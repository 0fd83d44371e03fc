package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/insight"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] lexicon",
		Short: "Compile a lexicon into a single msgpack bundle",
		Long:  `Compile gathers every list of a lexicon directory or YAML file into one msgpack bundle that can be passed to --lexicon.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	cmd.Flags().StringP("output", "o", "lexicon.msgpack", "output file")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	langFlag, _ := cmd.Root().PersistentFlags().GetString("lang")
	lang := insight.English
	if langFlag != "" {
		parsed, err := insight.ParseLanguage(langFlag)
		if err != nil {
			return err
		}
		lang = parsed
	}

	provider, err := insight.OpenLexicon(args[0])
	if err != nil {
		return err
	}
	// Refuse to write a bundle that would not load.
	if _, err := insight.NewModel(provider, insight.WithLanguage(lang)); err != nil {
		return err
	}
	bundle, err := insight.BundleFrom(provider, lang)
	if err != nil {
		return err
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	w := bufio.NewWriter(file)
	if err := insight.WriteBundle(w, bundle); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d lists, language %s)\n", output, len(bundle.Lists), bundle.Language)
	return nil
}
