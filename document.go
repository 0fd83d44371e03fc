package insight

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A DocOpt represents a setting that changes document analysis.
//
// For example, it might bound the time spent on a long text:
//
//	doc, err := analyzer.AnalyzeDocument(text, insight.WithTimeout(time.Second))
type DocOpt func(opts *DocOpts)

// DocOpts controls document analysis.
type DocOpts struct {
	Context          context.Context        // Context for cancellation and timeouts
	Timeout          time.Duration          // Processing timeout
	ProgressCallback func(progress float64) // Progress reporting callback
	Segment          bool                   // If true, split the text into sentences
}

var defaultDocOpts = DocOpts{
	Context: context.Background(),
	Timeout: 30 * time.Second,
	Segment: true,
}

// WithContext sets the context for document analysis
func WithContext(ctx context.Context) DocOpt {
	return func(opts *DocOpts) {
		opts.Context = ctx
	}
}

// WithTimeout sets a timeout for document analysis
func WithTimeout(timeout time.Duration) DocOpt {
	return func(opts *DocOpts) {
		opts.Timeout = timeout
	}
}

// WithProgressCallback sets a progress reporting callback
func WithProgressCallback(callback func(float64)) DocOpt {
	return func(opts *DocOpts) {
		opts.ProgressCallback = callback
	}
}

// WithSegmentation can enable (the default) or disable sentence segmentation.
func WithSegmentation(include bool) DocOpt {
	return func(opts *DocOpts) {
		opts.Segment = include
	}
}

// A Sentence represents a segmented portion of text.
type Sentence struct {
	Text  string `json:"text"`  // The sentence's text.
	Start int    `json:"start"` // Start byte offset in the original text
	End   int    `json:"end"`   // End byte offset in the original text
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// SentenceSentiment is the result for one sentence.
type SentenceSentiment struct {
	Sentence
	Class  Class  `json:"class"`
	Scores Scores `json:"scores"`
}

// DocumentSentiment is the result for a whole text and, when segmentation is
// enabled, for each of its sentences.
type DocumentSentiment struct {
	Text      string              `json:"text"`
	Language  Language            `json:"language"`
	Class     Class               `json:"class"`
	Scores    Scores              `json:"scores"`
	Sentences []SentenceSentiment `json:"sentences,omitempty"`
}

// AnalyzeDocument scores text as a whole and sentence by sentence. All
// scores come from the same Model snapshot, even if a reload happens
// meanwhile.
func (a *Analyzer) AnalyzeDocument(text string, opts ...DocOpt) (*DocumentSentiment, error) {
	base := defaultDocOpts
	for _, applyOpt := range opts {
		applyOpt(&base)
	}

	ctx := base.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if base.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, base.Timeout)
		defer cancel()
	}

	reportProgress := func(p float64) {
		if base.ProgressCallback != nil {
			base.ProgressCallback(p)
		}
	}

	model := a.model.Load()
	scores := model.Score(text)
	doc := &DocumentSentiment{
		Text:     text,
		Language: model.Language,
		Class:    scores.Category(),
		Scores:   scores,
	}

	if !base.Segment {
		reportProgress(1.0)
		return doc, nil
	}

	sents, err := segmentSentences(text)
	if err != nil {
		return nil, err
	}
	for i, sent := range sents {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		scores := model.Score(sent.Text)
		doc.Sentences = append(doc.Sentences, SentenceSentiment{
			Sentence: sent,
			Class:    scores.Category(),
			Scores:   scores,
		})
		reportProgress(float64(i+1) / float64(len(sents)))
	}
	if len(sents) == 0 {
		reportProgress(1.0)
	}

	return doc, nil
}

var (
	punktOnce sync.Once
	punkt     *sentences.DefaultSentenceTokenizer
	punktErr  error
)

// segmentSentences splits text with the punkt tokenizer and locates each
// sentence in the original text.
func segmentSentences(text string) ([]Sentence, error) {
	tokenizer, err := punktTokenizer()
	if err != nil {
		return nil, err
	}

	var sents []Sentence
	cursor := 0
	for _, s := range tokenizer.Tokenize(text) {
		body := strings.TrimSpace(s.Text)
		if body == "" {
			continue
		}
		start := cursor
		if idx := strings.Index(text[cursor:], body); idx >= 0 {
			start = cursor + idx
		}
		end := start + len(body)
		if end > len(text) {
			end = len(text)
		}
		sents = append(sents, Sentence{Text: body, Start: start, End: end})
		cursor = end
	}
	return sents, nil
}

func punktTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	punktOnce.Do(func() {
		punkt, punktErr = english.NewSentenceTokenizer(nil)
		if punktErr != nil {
			punktErr = fmt.Errorf("insight: load sentence tokenizer: %w", punktErr)
		}
	})
	return punkt, punktErr
}
