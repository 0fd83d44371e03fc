package insight

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// LabeledText is a text with its expected class.
type LabeledText struct {
	Text  string `json:"text"`
	Label Class  `json:"label"`
}

// Prediction is the outcome for one LabeledText.
type Prediction struct {
	LabeledText
	Predicted Class  `json:"predicted"`
	Scores    Scores `json:"scores"`
}

// Correct reports whether the prediction matches the label.
func (p Prediction) Correct() bool {
	return p.Predicted == p.Label
}

// Metrics captures evaluation information on a labeled dataset.
type Metrics struct {
	Total     int
	Correct   int
	Confusion map[Class]map[Class]int // actual -> predicted -> count
}

// Accuracy returns the accuracy as a floating point value in [0,1].
func (m Metrics) Accuracy() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Total)
}

// Precision returns the share of texts predicted as c that really are c.
func (m Metrics) Precision(c Class) float64 {
	var predicted int
	for _, row := range m.Confusion {
		predicted += row[c]
	}
	if predicted == 0 {
		return 0
	}
	return float64(m.Confusion[c][c]) / float64(predicted)
}

// Recall returns the share of texts labeled c that were predicted as c.
func (m Metrics) Recall(c Class) float64 {
	var actual int
	for _, n := range m.Confusion[c] {
		actual += n
	}
	if actual == 0 {
		return 0
	}
	return float64(m.Confusion[c][c]) / float64(actual)
}

// F1 returns the harmonic mean of precision and recall for c.
func (m Metrics) F1(c Class) float64 {
	p, r := m.Precision(c), m.Recall(c)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// MacroF1 averages F1 over all classes.
func (m Metrics) MacroF1() float64 {
	f1 := make([]float64, len(Classes))
	for i, class := range Classes {
		f1[i] = m.F1(class)
	}
	return floats.Sum(f1) / float64(len(f1))
}

// Evaluate scores every text with a concurrent pool of jobs workers and
// compares the predictions with the labels. jobs <= 0 means GOMAXPROCS.
// Every text is scored against the same Model snapshot.
func Evaluate(ctx context.Context, a *Analyzer, texts []LabeledText, jobs int) (Metrics, []Prediction, error) {
	metrics := Metrics{Confusion: make(map[Class]map[Class]int)}
	if len(texts) == 0 {
		return metrics, nil, nil
	}
	for i, t := range texts {
		if !t.Label.Valid() {
			return metrics, nil, fmt.Errorf("insight: evaluate: text %d has invalid label %q", i, t.Label)
		}
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	model := a.Model()
	// Each goroutine writes its own index.
	predictions := make([]Prediction, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(texts)))

	for i, t := range texts {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			scores := model.Score(t.Text)
			predictions[i] = Prediction{
				LabeledText: t,
				Predicted:   scores.Category(),
				Scores:      scores,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return metrics, nil, fmt.Errorf("insight: evaluate: %w", err)
	}

	for _, p := range predictions {
		metrics.Total++
		if p.Correct() {
			metrics.Correct++
		}
		row, ok := metrics.Confusion[p.Label]
		if !ok {
			row = make(map[Class]int)
			metrics.Confusion[p.Label] = row
		}
		row[p.Predicted]++
	}
	return metrics, predictions, nil
}
