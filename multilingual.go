package insight

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/bbalet/stopwords"
)

// ErrUnsupportedLanguage is returned when no Analyzer is registered for a
// language.
var ErrUnsupportedLanguage = errors.New("insight: unsupported language")

// SupportedLanguages returns every language the detector can recognise.
func SupportedLanguages() []Language {
	return []Language{English, French, Portuguese, Spanish, German}
}

// ParseLanguage accepts an ISO 639-1 code such as "en" or "pt".
func ParseLanguage(s string) (Language, error) {
	code := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, lang := range SupportedLanguages() {
		if code == lang {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// LanguageDetector provides language detection capabilities
type LanguageDetector struct {
	languages     []Language
	functionWords map[Language]map[string]struct{}
	letters       map[rune]map[Language]float64
}

// minDetectLength is the shortest text, in bytes, worth running detection on.
const minDetectLength = 10

// NewLanguageDetector creates a new language detector
func NewLanguageDetector() *LanguageDetector {
	ld := &LanguageDetector{
		languages:     SupportedLanguages(),
		functionWords: make(map[Language]map[string]struct{}),
	}
	ld.initializeFunctionWords()
	ld.initializeLetters()
	return ld
}

// initializeFunctionWords sets up the short, frequent words of each language.
func (ld *LanguageDetector) initializeFunctionWords() {
	words := map[Language][]string{
		English:    {"the", "and", "that", "have", "for", "not", "with", "you", "this", "but", "his", "from", "they", "is", "was", "are"},
		French:     {"le", "la", "les", "et", "est", "un", "une", "des", "du", "que", "pour", "dans", "ce", "pas", "il", "elle", "je", "avec"},
		Portuguese: {"o", "os", "as", "e", "é", "um", "uma", "não", "de", "do", "da", "em", "para", "com", "muito", "mas", "você", "está"},
		Spanish:    {"el", "la", "los", "las", "y", "es", "un", "una", "que", "del", "en", "por", "con", "para", "pero", "muy", "no", "está"},
		German:     {"der", "die", "das", "und", "ist", "nicht", "ein", "eine", "zu", "mit", "sich", "auf", "für", "ich", "sehr", "den"},
	}
	for lang, list := range words {
		set := make(map[string]struct{}, len(list))
		for _, w := range list {
			set[w] = struct{}{}
		}
		ld.functionWords[lang] = set
	}
}

// initializeLetters weights characters that are typical of a language.
func (ld *LanguageDetector) initializeLetters() {
	ld.letters = map[rune]map[Language]float64{
		'ñ': {Spanish: 10},
		'ã': {Portuguese: 10},
		'õ': {Portuguese: 10},
		'ç': {French: 4, Portuguese: 4},
		'è': {French: 6},
		'à': {French: 6, Portuguese: 2},
		'ê': {French: 3, Portuguese: 3},
		'é': {French: 3, Spanish: 1, Portuguese: 1},
		'á': {Spanish: 3, Portuguese: 3},
		'í': {Spanish: 3, Portuguese: 2},
		'ó': {Spanish: 3, Portuguese: 2},
		'ú': {Spanish: 3, Portuguese: 2},
		'ü': {German: 8},
		'ö': {German: 8},
		'ä': {German: 8},
		'ß': {German: 8},
		'w': {English: 3, German: 2},
		'k': {German: 2, English: 1},
	}
}

// DetectLanguage attempts to detect the language of the given text. The
// confidence is the winning language's share of all evidence; it is 0 when
// the text gives no evidence at all, in which case English is returned.
func (ld *LanguageDetector) DetectLanguage(text string) (Language, float64) {
	if len(text) < minDetectLength {
		return English, 0
	}

	text = strings.ToLower(text)
	scores := make(map[Language]float64, len(ld.languages))

	words := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		for _, lang := range ld.languages {
			if _, found := ld.functionWords[lang][w]; found {
				scores[lang]++
			}
		}
	}
	if len(words) > 0 {
		for lang := range scores {
			scores[lang] /= float64(len(words))
		}
	}

	for lang, score := range ld.scoreByCharacterFrequency(text) {
		scores[lang] += score
	}

	// Iterate in a fixed order so ties always resolve the same way.
	bestLang := English
	bestScore := 0.0
	totalScore := 0.0
	for _, lang := range ld.languages {
		score := scores[lang]
		totalScore += score
		if score > bestScore {
			bestScore = score
			bestLang = lang
		}
	}
	if totalScore == 0 {
		return English, 0
	}
	return bestLang, bestScore / totalScore
}

// scoreByCharacterFrequency scores languages based on character frequency patterns
func (ld *LanguageDetector) scoreByCharacterFrequency(text string) map[Language]float64 {
	scores := make(map[Language]float64)

	charCount := make(map[rune]int)
	totalChars := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			charCount[r]++
			totalChars++
		}
	}
	if totalChars == 0 {
		return scores
	}

	for char, count := range charCount {
		weights, found := ld.letters[char]
		if !found {
			continue
		}
		freq := float64(count) / float64(totalChars)
		for lang, weight := range weights {
			scores[lang] += freq * weight
		}
	}
	return scores
}

// stopwordFilter answers stop-word questions for one language with the
// stopwords package. Answers are memoized; the filter is safe for concurrent
// use.
type stopwordFilter struct {
	lang  string
	cache sync.Map // token -> bool
}

func newStopwordFilter(lang Language) *stopwordFilter {
	return &stopwordFilter{lang: string(lang)}
}

// isStopword reports whether token is a stop word. Only tokens made of
// letters are considered; punctuation and emoticons never are.
func (f *stopwordFilter) isStopword(token string) bool {
	if cached, found := f.cache.Load(token); found {
		return cached.(bool)
	}
	stop := isWord(token) && strings.TrimSpace(stopwords.CleanString(token, f.lang, false)) == ""
	f.cache.Store(token, stop)
	return stop
}

func isWord(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Multilingual routes texts to one Analyzer per language, picked by
// language detection. Texts in a language without an Analyzer, or with no
// detectable language, go to the fallback.
type Multilingual struct {
	detector  *LanguageDetector
	fallback  Language
	analyzers map[Language]*Analyzer
}

// NewMultilingual creates a router. analyzers must contain fallback.
func NewMultilingual(fallback Language, analyzers map[Language]*Analyzer) (*Multilingual, error) {
	if _, found := analyzers[fallback]; !found {
		return nil, fmt.Errorf("%w: no analyzer for fallback language %q", ErrUnsupportedLanguage, fallback)
	}
	m := &Multilingual{
		detector:  NewLanguageDetector(),
		fallback:  fallback,
		analyzers: make(map[Language]*Analyzer, len(analyzers)),
	}
	for lang, a := range analyzers {
		m.analyzers[lang] = a
	}
	return m, nil
}

// Languages returns the languages that have an Analyzer, sorted.
func (m *Multilingual) Languages() []Language {
	langs := make([]Language, 0, len(m.analyzers))
	for lang := range m.analyzers {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Fallback returns the language used when detection does not help.
func (m *Multilingual) Fallback() Language {
	return m.fallback
}

// Analyzer returns the Analyzer registered for lang.
func (m *Multilingual) Analyzer(lang Language) (*Analyzer, error) {
	a, found := m.analyzers[lang]
	if !found {
		return nil, fmt.Errorf("%w: %s (have %v)", ErrUnsupportedLanguage, lang, m.Languages())
	}
	return a, nil
}

// Detect returns the language whose Analyzer will handle text.
func (m *Multilingual) Detect(text string) Language {
	lang, confidence := m.detector.DetectLanguage(text)
	if confidence == 0 {
		return m.fallback
	}
	if _, found := m.analyzers[lang]; !found {
		return m.fallback
	}
	return lang
}

// Score scores text with the Analyzer of its detected language.
func (m *Multilingual) Score(text string) (Language, Scores) {
	lang := m.Detect(text)
	return lang, m.analyzers[lang].Score(text)
}

// Categorise categorises text with the Analyzer of its detected language.
func (m *Multilingual) Categorise(text string) (Language, Class) {
	lang := m.Detect(text)
	return lang, m.analyzers[lang].Categorise(text)
}

// Reload reloads every Analyzer. It stops at the first failure; Analyzers
// reloaded before it keep their new Model.
func (m *Multilingual) Reload() error {
	for _, lang := range m.Languages() {
		if err := m.analyzers[lang].Reload(); err != nil {
			return fmt.Errorf("insight: reload %s: %w", lang, err)
		}
	}
	return nil
}
