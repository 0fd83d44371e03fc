package insight

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// ErrInvalidConfig is returned when thresholds or priors cannot produce
// meaningful scores.
var ErrInvalidConfig = errors.New("insight: invalid configuration")

const (
	DefaultMinTokenLength = 1
	DefaultMaxTokenLength = 15

	// scoreDecimals is the precision of normalized scores.
	scoreDecimals = 3

	// priorTolerance is how far the priors may sum away from 1.
	priorTolerance = 0.01
)

// A ModelOpt represents a setting that changes how a Model is built.
//
// For example, it might widen the accepted token lengths:
//
//	model, err := insight.NewModel(provider, insight.WithMaxTokenLength(25))
type ModelOpt func(opts *ModelOpts)

// ModelOpts controls Model creation.
type ModelOpts struct {
	Name           string       // Free-form model name
	Language       Language     // Language of the lexicon
	MinTokenLength int          // Tokens must be strictly longer than this
	MaxTokenLength int          // Tokens must be strictly shorter than this
	Priors         Priors       // Prior probability per class
	Stopwords      Language     // If set, stop words of this language are ignored
	Logger         *slog.Logger // Receives load-time messages
}

func defaultModelOpts() ModelOpts {
	return ModelOpts{
		Name:           "default",
		Language:       English,
		MinTokenLength: DefaultMinTokenLength,
		MaxTokenLength: DefaultMaxTokenLength,
		Priors:         DefaultPriors(),
	}
}

func resolveModelOpts(opts []ModelOpt) ModelOpts {
	base := defaultModelOpts()
	for _, applyOpt := range opts {
		applyOpt(&base)
	}
	if base.Logger == nil {
		base.Logger = slog.Default()
	}
	return base
}

// WithName names the model.
func WithName(name string) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Name = name
	}
}

// WithLanguage records the language of the lexicon.
func WithLanguage(lang Language) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Language = lang
	}
}

// WithMinTokenLength overrides the exclusive lower token length bound.
func WithMinTokenLength(n int) ModelOpt {
	return func(opts *ModelOpts) {
		opts.MinTokenLength = n
	}
}

// WithMaxTokenLength overrides the exclusive upper token length bound.
func WithMaxTokenLength(n int) ModelOpt {
	return func(opts *ModelOpts) {
		opts.MaxTokenLength = n
	}
}

// WithPriors overrides the class priors. The map is copied.
func WithPriors(p Priors) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Priors = make(Priors, len(p))
		for class, prior := range p {
			opts.Priors[class] = prior
		}
	}
}

// WithStopwords skips stop words of lang as if they were in the ignore list.
func WithStopwords(lang Language) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Stopwords = lang
	}
}

// WithLogger sets the logger used while loading lexicons.
func WithLogger(logger *slog.Logger) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Logger = logger
	}
}

// NewModelOpts applies opts over the defaults and validates the result.
func NewModelOpts(opts ...ModelOpt) (ModelOpts, error) {
	base := resolveModelOpts(opts)
	return base, base.validate()
}

func (o ModelOpts) validate() error {
	if o.MinTokenLength < 0 {
		return fmt.Errorf("%w: min token length %d is negative", ErrInvalidConfig, o.MinTokenLength)
	}
	if o.MaxTokenLength <= o.MinTokenLength {
		return fmt.Errorf("%w: max token length %d must exceed min token length %d",
			ErrInvalidConfig, o.MaxTokenLength, o.MinTokenLength)
	}

	var sum float64
	for class, prior := range o.Priors {
		if !class.Valid() {
			return fmt.Errorf("%w: prior for unknown class %q", ErrInvalidConfig, class)
		}
		if math.IsNaN(prior) || prior <= 0 || prior >= 1 {
			return fmt.Errorf("%w: prior for %s must be in (0,1), got %v", ErrInvalidConfig, class, prior)
		}
		sum += prior
	}
	for _, class := range Classes {
		if _, found := o.Priors[class]; !found {
			return fmt.Errorf("%w: missing prior for %s", ErrInvalidConfig, class)
		}
	}
	if math.Abs(sum-1) > priorTolerance {
		return fmt.Errorf("%w: priors sum to %v", ErrInvalidConfig, sum)
	}
	return nil
}

// A Model holds the dictionary, auxiliary lists, thresholds and priors used
// for scoring. It is immutable once built; Score and Categorise are safe for
// concurrent use.
type Model struct {
	Name     string
	Language Language

	tokenizer  *Tokenizer
	dictionary *Dictionary
	negations  NegationList
	ignore     map[string]struct{}
	splitWords map[string]struct{}
	stopwords  *stopwordFilter

	minTokenLength int
	maxTokenLength int
	priors         Priors
	logPriors      []float64 // indexed like Classes

	report LoadReport
}

// NewModel loads every list from provider and builds a Model.
//
// The three class dictionaries are required. A missing auxiliary list
// (ignore, negation prefixes, split words) degrades to an empty list.
func NewModel(provider LexiconProvider, opts ...ModelOpt) (*Model, error) {
	base := resolveModelOpts(opts)
	if err := base.validate(); err != nil {
		return nil, err
	}
	provider, err := snapshot(provider)
	if err != nil {
		return nil, fmt.Errorf("insight: read lexicon: %w: %w", ErrMissingLexicon, err)
	}

	m := &Model{
		Name:           base.Name,
		Language:       base.Language,
		dictionary:     newDictionary(),
		minTokenLength: base.MinTokenLength,
		maxTokenLength: base.MaxTokenLength,
		priors:         make(Priors, len(Classes)),
		logPriors:      make([]float64, len(Classes)),
		report:         LoadReport{Classes: make(map[Class]ClassReport, len(Classes))},
	}
	for i, class := range Classes {
		m.priors[class] = base.Priors[class]
		m.logPriors[i] = math.Log(base.Priors[class])
	}

	for _, class := range Classes {
		words, err := provider.Load(string(class))
		if err != nil {
			return nil, fmt.Errorf("insight: load %s dictionary: %w: %w", class, ErrMissingLexicon, err)
		}

		words = trimAll(words)
		cr := ClassReport{Listed: len(words)}
		for _, word := range words {
			if m.dictionary.add(class, word) {
				cr.Unique++
			} else {
				cr.Duplicates++
			}
		}
		m.report.Classes[class] = cr
		m.report.Tokens += cr.Listed
		m.report.Documents += cr.Listed
	}

	ignore, err := loadAuxList(provider, ListIgnore, base.Logger)
	if err != nil {
		return nil, err
	}
	negations, err := loadAuxList(provider, ListNegationPrefixes, base.Logger)
	if err != nil {
		return nil, err
	}
	splits, err := loadAuxList(provider, ListSplitWords, base.Logger)
	if err != nil {
		return nil, err
	}

	m.ignore = toSet(ignore)
	m.negations = newNegationList(negations)
	m.splitWords = toSet(splits)
	m.tokenizer = NewTokenizer(UsingSplitWords(trimAll(splits)))
	if base.Stopwords != "" {
		m.stopwords = newStopwordFilter(base.Stopwords)
	}

	m.report.Ignore = len(m.ignore)
	m.report.Negations = m.negations.Len()
	m.report.Splits = len(m.splitWords)

	base.Logger.Debug("sentiment model loaded",
		slog.String("model", m.Name),
		slog.String("language", string(m.Language)),
		slog.Int("pos", m.dictionary.Len(Positive)),
		slog.Int("neg", m.dictionary.Len(Negative)),
		slog.Int("neu", m.dictionary.Len(Neutral)),
		slog.Int("negations", m.report.Negations),
	)

	return m, nil
}

// loadAuxList returns an empty list when the provider does not have name.
// Any other provider failure is returned.
func loadAuxList(provider LexiconProvider, name string, logger *slog.Logger) ([]string, error) {
	words, err := provider.Load(name)
	if errors.Is(err, ErrListNotFound) {
		logger.Warn("lexicon list not found, using an empty list", slog.String("list", name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insight: load %s list: %w", name, err)
	}
	return words, nil
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range trimAll(words) {
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func trimAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// manifest is the optional model.toml next to a lexicon's list files.
type manifest struct {
	Model struct {
		Name           string `toml:"name"`
		Language       string `toml:"language"`
		MinTokenLength *int   `toml:"min_token_length"`
		MaxTokenLength *int   `toml:"max_token_length"`
	} `toml:"model"`
	Priors map[string]float64 `toml:"priors"`
}

// ManifestFile is the name of the optional model manifest in a lexicon
// directory.
const ManifestFile = "model.toml"

// ModelFromFS loads a Model from a directory of list files. Settings in an
// optional model.toml are applied first; opts override them.
func ModelFromFS(fsys fs.FS, opts ...ModelOpt) (*Model, error) {
	manifestOpts, err := ReadManifest(fsys)
	if err != nil {
		return nil, err
	}
	return NewModel(NewFSLexicon(fsys), append(manifestOpts, opts...)...)
}

// ReadManifest returns the options stored in fsys's model.toml, or none when
// the file is absent.
func ReadManifest(fsys fs.FS) ([]ModelOpt, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insight: read %s: %w", ManifestFile, err)
	}

	var mf manifest
	if _, err := toml.Decode(string(data), &mf); err != nil {
		return nil, fmt.Errorf("insight: %s: failed to parse TOML: %w", ManifestFile, err)
	}

	var opts []ModelOpt
	if mf.Model.Name != "" {
		opts = append(opts, WithName(mf.Model.Name))
	}
	if mf.Model.Language != "" {
		opts = append(opts, WithLanguage(Language(mf.Model.Language)))
	}
	if mf.Model.MinTokenLength != nil {
		opts = append(opts, WithMinTokenLength(*mf.Model.MinTokenLength))
	}
	if mf.Model.MaxTokenLength != nil {
		opts = append(opts, WithMaxTokenLength(*mf.Model.MaxTokenLength))
	}
	if len(mf.Priors) > 0 {
		priors := make(Priors, len(mf.Priors))
		for name, prior := range mf.Priors {
			class, err := ParseClass(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, ManifestFile, err)
			}
			priors[class] = prior
		}
		opts = append(opts, WithPriors(priors))
	}
	return opts, nil
}

// Report returns the statistics gathered while loading the lexicon.
func (m *Model) Report() LoadReport {
	r := m.report
	r.Classes = make(map[Class]ClassReport, len(m.report.Classes))
	for class, cr := range m.report.Classes {
		r.Classes[class] = cr
	}
	return r
}

// Priors returns a copy of the class priors.
func (m *Model) Priors() Priors {
	p := make(Priors, len(m.priors))
	for class, prior := range m.priors {
		p[class] = prior
	}
	return p
}

// Dictionary returns the model's read-only dictionary index.
func (m *Model) Dictionary() *Dictionary {
	return m.dictionary
}

// Tokenizer returns the tokenizer configured with the model's split words.
func (m *Model) Tokenizer() *Tokenizer {
	return m.tokenizer
}

// IsNegation reports whether token matches a negation prefix.
func (m *Model) IsNegation(token string) bool {
	return m.negations.Match(token)
}

// Tokenize splits text the way Score does.
func (m *Model) Tokenize(text string) []string {
	return m.tokenizer.Tokenize(text)
}

// Score returns the probability of each class for text, rounded to three
// decimals and sorted from most to least likely.
func (m *Model) Score(text string) Scores {
	return m.ScoreTokens(m.tokenizer.Tokenize(text))
}

// ScoreTokens scores an already tokenized sequence.
//
// Each class starts from a running product of 1. Every scorable token found
// in a class dictionary multiplies that product by (count+1); a negated
// token multiplies the inverse class instead, or nothing for neutral. The
// products are scaled by the priors and normalized. Products are kept as
// sums of logarithms so long texts cannot overflow.
func (m *Model) ScoreTokens(tokens []string) Scores {
	logs := make([]float64, len(Classes))
	negation := make([]int8, len(tokens)) // 0 unknown, 1 negated, -1 not negated

	for ci, class := range Classes {
		for i, token := range tokens {
			if !m.scorable(token) {
				continue
			}
			entry, found := m.dictionary.Lookup(token, class)
			if !found {
				continue
			}
			weight := math.Log(float64(m.dictionary.Count(entry.Key, class) + 1))

			if negation[i] == 0 {
				negation[i] = -1
				if m.negated(tokens, i) {
					negation[i] = 1
				}
			}
			if negation[i] < 0 {
				logs[ci] += weight
				continue
			}
			if inverse, ok := class.Inverse(); ok {
				logs[classIndex(inverse)] += weight
			}
		}
	}

	floats.Add(logs, m.logPriors)
	return normalizeScores(logs)
}

// Categorise returns the dominant class of text. When the two best scores
// are equal the text is neutral, whichever classes tied.
func (m *Model) Categorise(text string) Class {
	return m.Score(text).Category()
}

// scorable applies the length window and the ignore filters.
func (m *Model) scorable(token string) bool {
	n := utf8.RuneCountInString(token)
	if n <= m.minTokenLength || n >= m.maxTokenLength {
		return false
	}
	if _, ignored := m.ignore[token]; ignored {
		return false
	}
	return m.stopwords == nil || !m.stopwords.isStopword(token)
}

// normalizeScores turns per-class log likelihoods into rounded probabilities
// sorted in descending order.
func normalizeScores(logs []float64) Scores {
	total := floats.LogSumExp(logs)
	scores := make(Scores, len(Classes))
	for i, class := range Classes {
		scores[i] = ClassScore{
			Class: class,
			Score: scalar.Round(math.Exp(logs[i]-total), scoreDecimals),
		}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Score > scores[b].Score
	})
	return scores
}

func classIndex(c Class) int {
	for i, class := range Classes {
		if class == c {
			return i
		}
	}
	return -1
}
