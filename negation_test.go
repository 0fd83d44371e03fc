package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func negationModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(MapLexicon{
		"pos":               {"good", "lovely"},
		"neg":               {"bad"},
		"neu":               {"okay"},
		"negation-prefixes": {"not", "no", "isn"},
		"split-words":       {".", ",", "?"},
	})
	require.NoError(t, err)
	return m
}

func TestNegated(t *testing.T) {
	m := negationModel(t)

	tests := []struct {
		name   string
		tokens []string
		pos    int
		want   bool
	}{
		{"directly before", []string{"not", "good"}, 1, true},
		{"directly after", []string{"good", "not"}, 0, true},
		{"filler words skipped", []string{"not", "very", "really", "good"}, 3, true},
		{"split word stops backward scan", []string{"not", ".", "good"}, 2, false},
		{"split word stops forward scan", []string{"good", ",", "not"}, 0, false},
		{"dictionary word stops scan", []string{"not", "bad", "good"}, 2, false},
		{"forward negation before question", []string{"lovely", "no", "?"}, 0, false},
		{"question mark ends backward scan", []string{"no", "?", "lovely"}, 2, false},
		{"backward negation ignores question", []string{"no", "lovely", "?"}, 1, true},
		{"no negation", []string{"the", "food", "is", "good"}, 3, false},
		{"contraction", []string{"this", "isn", "t", "good"}, 3, true},
		{"single token", []string{"good"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.negated(tt.tokens, tt.pos))
		})
	}
}

func TestNegatedWithoutPrefixes(t *testing.T) {
	m, err := NewModel(MapLexicon{"pos": {"good"}, "neg": {}, "neu": {}})
	require.NoError(t, err)
	assert.False(t, m.negated([]string{"not", "good"}, 1))
	assert.Equal(t, Positive, m.Categorise("not good"))
}

func TestNegatedNeutralIsDropped(t *testing.T) {
	m := negationModel(t)
	scores := m.Score("not okay")
	assert.InDelta(t, 0.334, scores.Get(Neutral), 1e-9)
	assert.InDelta(t, 0.333, scores.Get(Positive), 1e-9)
	assert.InDelta(t, 0.333, scores.Get(Negative), 1e-9)
}

func TestIsNegation(t *testing.T) {
	m := negationModel(t)
	assert.True(t, m.IsNegation("not"))
	assert.False(t, m.IsNegation("nothing"))
}

// The question mark only cancels a negation that precedes it directly.
// In "isn't this great?" the negation sits before the word, so the
// backward scan applies it.
func TestQuestionAfterScoredWord(t *testing.T) {
	m := Default().Model()
	assert.Equal(t, []string{"isn", "t", "this", "great", "?"}, m.Tokenize("isn't this great?"))

	scores := m.Score("isn't this great?")
	assert.Equal(t, Negative, scores.Category())
	assert.InDelta(t, 0.5, scores.Get(Negative), 1e-9)
	assert.InDelta(t, 0.251, scores.Get(Neutral), 1e-9)
	assert.InDelta(t, 0.25, scores.Get(Positive), 1e-9)

	assert.Equal(t, Neutral, m.Categorise("To be or not to be?"))
}
