package insight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer turns raw text into the normalized token sequence used for
// scoring. A Tokenizer is immutable and safe for concurrent use.
type Tokenizer struct {
	sanitizer  *strings.Replacer
	splitWords []string
}

type TokenizerOptFunc func(*Tokenizer)

// UsingSplitWords sets the punctuation-like strings that are forced into
// their own token when they directly follow a letter.
func UsingSplitWords(x []string) TokenizerOptFunc {
	return func(tokenizer *Tokenizer) {
		tokenizer.splitWords = x
	}
}

// Use the provided sanitizer.
func UsingSanitizer(x *strings.Replacer) TokenizerOptFunc {
	return func(tokenizer *Tokenizer) {
		tokenizer.sanitizer = x
	}
}

// NewTokenizer builds a Tokenizer. Without options it splits nothing but
// whitespace and apostrophes.
func NewTokenizer(opts ...TokenizerOptFunc) *Tokenizer {
	tok := &Tokenizer{sanitizer: sanitizer}
	for _, applyOpt := range opts {
		applyOpt(tok)
	}
	return tok
}

// SplitWords returns the configured split words.
func (t *Tokenizer) SplitWords() []string {
	return append([]string(nil), t.splitWords...)
}

// Tokenize normalizes text and splits it into tokens. The returned indices
// are the positions used by negation scanning.
func (t *Tokenizer) Tokenize(text string) []string {
	clean := normalizeText(text)
	if t.sanitizer != nil {
		clean = t.sanitizer.Replace(clean)
	}
	clean = separateSplitWords(clean, t.splitWords)
	return strings.FieldsFunc(clean, isTokenSeparator)
}

// separateSplitWords inserts a space in front of every split word that
// follows a letter, so "great." becomes "great ." while ":)" stays whole.
func separateSplitWords(text string, splitWords []string) string {
	for _, sw := range splitWords {
		if sw == "" || !strings.Contains(text, sw) {
			continue
		}

		var b strings.Builder
		b.Grow(len(text) + 8)

		last := utf8.RuneError
		rest := text
		for {
			idx := strings.Index(rest, sw)
			if idx < 0 {
				b.WriteString(rest)
				break
			}
			if idx > 0 {
				last, _ = utf8.DecodeLastRuneInString(rest[:idx])
				b.WriteString(rest[:idx])
			}
			if unicode.IsLetter(last) {
				b.WriteByte(' ')
			}
			b.WriteString(sw)
			last, _ = utf8.DecodeLastRuneInString(sw)
			rest = rest[idx+len(sw):]
		}
		text = b.String()
	}
	return text
}

func isTokenSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '\''
}

var sanitizer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"&rsquo;", "'")
