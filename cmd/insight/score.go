package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/insight"
)

type scoreResult struct {
	Text     string           `json:"text"`
	Language insight.Language `json:"language"`
	Category insight.Class    `json:"category"`
	Scores   insight.Scores   `json:"scores"`
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [flags] [text...]",
		Short: "Print class probabilities for each text",
		Long:  `Score prints the normalized probability of every class. Without arguments it reads one text per line from stdin.`,
		RunE:  runScore,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func newCategoriseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "categorise [text...]",
		Aliases: []string{"categorize"},
		Short:   "Print the dominant class of each text",
		RunE:    runCategorise,
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if err := checkFormat(format); err != nil {
		return err
	}

	router, err := loadRouter(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return eachText(cmd.InOrStdin(), args, func(text string) error {
		lang, scores := router.Score(text)
		if format == "json" {
			return writeJSON(out, scoreResult{Text: text, Language: lang, Category: scores.Category(), Scores: scores})
		}
		_, err := fmt.Fprintf(out, "%s\t%s\t%s\n", classLabel(scores.Category()), formatScores(scores), text)
		return err
	})
}

func runCategorise(cmd *cobra.Command, args []string) error {
	router, err := loadRouter(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return eachText(cmd.InOrStdin(), args, func(text string) error {
		_, class := router.Categorise(text)
		_, err := fmt.Fprintln(out, classLabel(class))
		return err
	})
}

// eachText calls fn with the joined arguments, or with every non-empty line
// of in when there are none.
func eachText(in io.Reader, args []string, fn func(text string) error) error {
	if len(args) > 0 {
		return fn(strings.Join(args, " "))
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
