package insight

import (
	"math"
	"testing"
)

func FuzzScore(f *testing.F) {
	for _, seed := range []string{
		"",
		"Weather today is rubbish",
		"isn't it lovely?",
		"not not not good",
		"Ünïcödé ßtraße ça va",
		"\r\n\t:) :( !!!",
	} {
		f.Add(seed)
	}

	model := Default().Model()
	f.Fuzz(func(t *testing.T, text string) {
		scores := model.Score(text)
		if len(scores) != len(Classes) {
			t.Fatalf("Score(%q) returned %d classes", text, len(scores))
		}
		var sum float64
		for i, s := range scores {
			if math.IsNaN(s.Score) || s.Score < 0 || s.Score > 1 {
				t.Fatalf("Score(%q): bad probability %v", text, s)
			}
			if i > 0 && s.Score > scores[i-1].Score {
				t.Fatalf("Score(%q) is not sorted: %v", text, scores)
			}
			sum += s.Score
		}
		if math.Abs(sum-1) > 0.01 {
			t.Fatalf("Score(%q) sums to %v", text, sum)
		}
		if !model.Categorise(text).Valid() {
			t.Fatalf("Categorise(%q) returned an invalid class", text)
		}
	})
}
