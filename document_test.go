package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDocument(t *testing.T) {
	text := "The food is not good. He is very talented."
	doc, err := Default().AnalyzeDocument(text)
	require.NoError(t, err)

	assert.Equal(t, text, doc.Text)
	assert.Equal(t, English, doc.Language)
	assert.Equal(t, Default().Score(text), doc.Scores)
	assert.Equal(t, Neutral, doc.Class, "one negative and one positive sentence tie")

	require.Len(t, doc.Sentences, 2)
	first, second := doc.Sentences[0], doc.Sentences[1]

	assert.Equal(t, "The food is not good.", first.Text)
	assert.Equal(t, first.Text, text[first.Start:first.End])
	assert.Equal(t, Negative, first.Class)

	assert.Equal(t, "He is very talented.", second.Text)
	assert.Equal(t, second.Text, text[second.Start:second.End])
	assert.Equal(t, Positive, second.Class)
	assert.Greater(t, second.Start, first.End-1)
}

func TestAnalyzeDocumentWithoutSegmentation(t *testing.T) {
	var progress []float64
	doc, err := Default().AnalyzeDocument("He is very talented. Truly.",
		WithSegmentation(false),
		WithProgressCallback(func(p float64) { progress = append(progress, p) }),
	)
	require.NoError(t, err)
	assert.Empty(t, doc.Sentences)
	assert.Equal(t, Positive, doc.Class)
	assert.Equal(t, []float64{1}, progress)
}

func TestAnalyzeDocumentProgress(t *testing.T) {
	var progress []float64
	_, err := Default().AnalyzeDocument("Weather today is rubbish. He is very talented.",
		WithProgressCallback(func(p float64) { progress = append(progress, p) }),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1}, progress)
}

func TestAnalyzeDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Default().AnalyzeDocument("Weather today is rubbish.", WithContext(ctx))
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	_, err = Default().AnalyzeDocument("Weather today is rubbish.", WithTimeout(time.Nanosecond))
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
}

func TestAnalyzeDocumentEmpty(t *testing.T) {
	var progress []float64
	doc, err := Default().AnalyzeDocument("",
		WithProgressCallback(func(p float64) { progress = append(progress, p) }),
	)
	require.NoError(t, err)
	assert.Empty(t, doc.Sentences)
	assert.Equal(t, Neutral, doc.Class)
	assert.Equal(t, []float64{1}, progress)
}

func TestSentenceString(t *testing.T) {
	assert.Equal(t, "Hi.", Sentence{Text: "Hi.", Start: 0, End: 3}.String())
}
