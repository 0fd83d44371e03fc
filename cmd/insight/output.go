package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/tsawler/insight"
)

var classColors = map[insight.Class]*color.Color{
	insight.Positive: color.New(color.FgGreen, color.Bold),
	insight.Negative: color.New(color.FgRed, color.Bold),
	insight.Neutral:  color.New(color.FgYellow, color.Bold),
}

func classLabel(c insight.Class) string {
	if col, ok := classColors[c]; ok {
		return col.Sprint(c)
	}
	return string(c)
}

func formatScores(scores insight.Scores) string {
	parts := make([]string, len(scores))
	for i, cs := range scores {
		parts[i] = fmt.Sprintf("%s=%.3f", cs.Class, cs.Score)
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json":
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
