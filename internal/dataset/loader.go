// Package dataset reads labeled texts for evaluation.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/tsawler/insight"
)

// ErrEmpty is returned when a dataset holds no usable rows.
var ErrEmpty = errors.New("dataset is empty")

// LoadCSV reads text,label pairs from a CSV file.
// The first row can optionally be a header containing "text" and "label".
func LoadCSV(path string) ([]insight.LabeledText, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV reads text,label pairs from r. Labels may use the short class
// names or "positive", "negative" and "neutral". Rows with an empty text or
// label are skipped; an unknown label is an error.
func ReadCSV(r io.Reader) ([]insight.LabeledText, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var texts []insight.LabeledText
	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", row+1, err)
		}
		row++
		if len(record) < 2 {
			continue
		}
		if row == 1 && looksLikeHeader(record) {
			continue
		}

		text := strings.TrimSpace(record[0])
		label := strings.TrimSpace(record[1])
		if text == "" || label == "" {
			continue
		}
		class, err := insight.ParseClass(label)
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", row, err)
		}
		texts = append(texts, insight.LabeledText{Text: text, Label: class})
	}

	if len(texts) == 0 {
		return nil, ErrEmpty
	}
	return texts, nil
}

// Sample shuffles texts with seed and returns at most n of them. n <= 0
// returns every text, shuffled.
func Sample(texts []insight.LabeledText, n int, seed int64) []insight.LabeledText {
	shuffled := append([]insight.LabeledText(nil), texts...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n <= 0 || n >= len(shuffled) {
		return shuffled
	}
	return shuffled[:n]
}

// Split shuffles the dataset and splits it into two parts, the first holding
// ratio of the texts. A ratio outside (0,1) defaults to 0.8.
func Split(texts []insight.LabeledText, ratio float64, seed int64) ([]insight.LabeledText, []insight.LabeledText) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) == 1 {
		return append([]insight.LabeledText(nil), texts...), nil
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.8
	}

	shuffled := Sample(texts, 0, seed)
	size := int(math.Round(ratio * float64(len(shuffled))))
	if size <= 0 {
		size = 1
	}
	if size >= len(shuffled) {
		size = len(shuffled) - 1
	}
	return shuffled[:size], shuffled[size:]
}

func looksLikeHeader(record []string) bool {
	if len(record) < 2 {
		return false
	}
	left := strings.ToLower(strings.TrimSpace(record[0]))
	right := strings.ToLower(strings.TrimSpace(record[1]))
	return strings.Contains(left, "text") && strings.Contains(right, "label")
}
