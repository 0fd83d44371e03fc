package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/insight"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [flags] [text...]",
		Short: "Score a document as a whole and sentence by sentence",
		Long:  `Analyze splits the text into sentences and scores each of them. Without arguments the whole of stdin is one document.`,
		RunE:  runAnalyze,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Duration("timeout", 30*time.Second, "give up after this long")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkFormat(format); err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to analyze")
	}

	router, err := loadRouter(cmd)
	if err != nil {
		return err
	}
	analyzer, err := router.Analyzer(router.Detect(text))
	if err != nil {
		return err
	}

	doc, err := analyzer.AnalyzeDocument(text,
		insight.WithContext(cmd.Context()),
		insight.WithTimeout(timeout),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, doc)
	}
	fmt.Fprintf(out, "document (%s): %s\t%s\n", doc.Language, classLabel(doc.Class), formatScores(doc.Scores))
	for i, sent := range doc.Sentences {
		fmt.Fprintf(out, "%3d  %s\t%s\t%s\n", i+1, classLabel(sent.Class), formatScores(sent.Scores), sent.Text)
	}
	return nil
}
