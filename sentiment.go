// Package insight classifies short texts as positive, negative or neutral
// with a dictionary-driven Naive Bayes model.
//
// Text is normalized and tokenized, every token is looked up in the class
// dictionaries (entries may end in a "*" wildcard), and a nearby negation
// word such as "not" or "isn't" moves a token's weight to the opposite
// class. Scores are normalized probabilities; the dominant class is the
// answer unless the two best scores tie, in which case the text is neutral.
//
//	analyzer := insight.Default()
//	analyzer.Categorise("Weather today is rubbish") // insight.Negative
//
// Models are immutable. An Analyzer holds the current Model and swaps in a
// new one on Reload, so scoring never blocks and never observes a partially
// loaded lexicon.
package insight

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Analyzer scores texts against the current Model. It is safe for
// concurrent use, including concurrent Reload calls.
type Analyzer struct {
	model    atomic.Pointer[Model]
	provider LexiconProvider
	opts     []ModelOpt
	logger   *slog.Logger

	reloadMu sync.Mutex
}

// NewAnalyzer builds a Model from provider and wraps it in an Analyzer.
func NewAnalyzer(provider LexiconProvider, opts ...ModelOpt) (*Analyzer, error) {
	model, err := NewModel(provider, opts...)
	if err != nil {
		return nil, err
	}
	a := &Analyzer{
		provider: provider,
		opts:     opts,
		logger:   resolveModelOpts(opts).Logger,
	}
	a.model.Store(model)
	return a, nil
}

// NewAnalyzerFromModel wraps an existing Model. Reload needs a provider, so
// it fails until ReloadFrom has been called.
func NewAnalyzerFromModel(model *Model, opts ...ModelOpt) *Analyzer {
	a := &Analyzer{opts: opts, logger: resolveModelOpts(opts).Logger}
	a.model.Store(model)
	return a
}

// MustNewAnalyzer is like NewAnalyzer but panics on error.
func MustNewAnalyzer(provider LexiconProvider, opts ...ModelOpt) *Analyzer {
	a, err := NewAnalyzer(provider, opts...)
	checkError(err)
	return a
}

var (
	defaultOnce     sync.Once
	defaultAnalyzer *Analyzer
)

// Default returns a shared Analyzer over the embedded English lexicon.
func Default() *Analyzer {
	defaultOnce.Do(func() {
		defaultAnalyzer = MustNewAnalyzer(DefaultLexicon(), WithName("en"), WithLanguage(English))
	})
	return defaultAnalyzer
}

// Model returns the snapshot currently used for scoring.
func (a *Analyzer) Model() *Model {
	return a.model.Load()
}

// Score returns the probability of each class for text, sorted from most to
// least likely.
func (a *Analyzer) Score(text string) Scores {
	return a.model.Load().Score(text)
}

// Categorise returns the dominant class of text.
func (a *Analyzer) Categorise(text string) Class {
	return a.model.Load().Categorise(text)
}

// Reload rebuilds the Model from the Analyzer's provider, picking up any
// changes in the underlying lists. On error the current Model stays active.
func (a *Analyzer) Reload() error {
	a.reloadMu.Lock()
	provider := a.provider
	a.reloadMu.Unlock()

	if provider == nil {
		return fmt.Errorf("insight: reload: analyzer has no lexicon provider")
	}
	return a.ReloadFrom(provider)
}

// ReloadFrom builds a new Model from provider and swaps it in. Calls that
// are already scoring finish against the Model they started with.
func (a *Analyzer) ReloadFrom(provider LexiconProvider) error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	model, err := NewModel(provider, a.opts...)
	if err != nil {
		a.logger.Error("lexicon reload failed", slog.Any("error", err))
		return fmt.Errorf("insight: reload: %w", err)
	}

	a.provider = provider
	a.model.Store(model)

	report := model.Report()
	a.logger.Info("lexicon reloaded",
		slog.String("model", model.Name),
		slog.Int("entries", report.Tokens),
	)
	return nil
}
