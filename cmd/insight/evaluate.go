package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tsawler/insight"
	"github.com/tsawler/insight/internal/dataset"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [flags] dataset.csv",
		Short: "Measure accuracy against a labeled CSV dataset",
		Long:  `Evaluate scores every text,label row of a CSV file and prints accuracy, per-class precision and recall, and the confusion matrix.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runEvaluate,
	}
	cmd.Flags().Int("jobs", 0, "number of parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().Int("sample", 0, "evaluate a random sample of this many rows (0 = all)")
	cmd.Flags().Int64("seed", 1, "random seed for --sample")
	cmd.Flags().Bool("errors", false, "list misclassified texts")
	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	jobs, _ := flags.GetInt("jobs")
	sample, _ := flags.GetInt("sample")
	seed, _ := flags.GetInt64("seed")
	showErrors, _ := flags.GetBool("errors")

	texts, err := dataset.LoadCSV(args[0])
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if sample > 0 {
		texts = dataset.Sample(texts, sample, seed)
	}

	router, err := loadRouter(cmd)
	if err != nil {
		return err
	}
	analyzer, err := router.Analyzer(router.Fallback())
	if err != nil {
		return err
	}

	metrics, predictions, err := insight.Evaluate(cmd.Context(), analyzer, texts, jobs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Accuracy: %.2f%% (%d/%d)\n", metrics.Accuracy()*100, metrics.Correct, metrics.Total)
	fmt.Fprintf(out, "Macro F1: %.3f\n", metrics.MacroF1())
	for _, class := range insight.Classes {
		fmt.Fprintf(out, "  %s  precision=%.3f recall=%.3f f1=%.3f\n",
			classLabel(class), metrics.Precision(class), metrics.Recall(class), metrics.F1(class))
	}
	fmt.Fprintln(out, "Confusion matrix (actual -> predicted counts):")
	printConfusion(out, metrics.Confusion)

	if showErrors {
		fmt.Fprintln(out, "Misclassified:")
		for _, p := range predictions {
			if !p.Correct() {
				fmt.Fprintf(out, "  want %s got %s: %s\n", p.Label, classLabel(p.Predicted), p.Text)
			}
		}
	}
	return nil
}

func printConfusion(w io.Writer, confusion map[insight.Class]map[insight.Class]int) {
	actual := make([]insight.Class, 0, len(confusion))
	for class := range confusion {
		actual = append(actual, class)
	}
	sort.Slice(actual, func(i, j int) bool { return actual[i] < actual[j] })

	for _, a := range actual {
		fmt.Fprintf(w, "  %s ->", a)
		for _, p := range insight.Classes {
			fmt.Fprintf(w, " %s:%d", p, confusion[a][p])
		}
		fmt.Fprintln(w)
	}
}
