package insight

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Class represents a sentiment category.
type Class string

const (
	Positive Class = "pos"
	Negative Class = "neg"
	Neutral  Class = "neu"
)

// Classes lists the sentiment classes in enumeration order. Scoring iterates
// in this order and ties are broken by it.
var Classes = []Class{Positive, Negative, Neutral}

// Inverse returns the class that a negated token of c contributes to.
// Neutral has no inverse, so negated neutral tokens are dropped.
func (c Class) Inverse() (Class, bool) {
	switch c {
	case Positive:
		return Negative, true
	case Negative:
		return Positive, true
	default:
		return "", false
	}
}

// Valid reports whether c is one of Classes.
func (c Class) Valid() bool {
	return c == Positive || c == Negative || c == Neutral
}

// String returns the short class name ("pos", "neg" or "neu").
func (c Class) String() string {
	return string(c)
}

// ParseClass accepts the short names as well as "positive", "negative" and
// "neutral", in any case.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pos", "positive":
		return Positive, nil
	case "neg", "negative":
		return Negative, nil
	case "neu", "neutral":
		return Neutral, nil
	}
	return "", fmt.Errorf("insight: unknown class %q", s)
}

// ClassScore is the normalized probability of one class.
type ClassScore struct {
	Class Class   `json:"class"`
	Score float64 `json:"score"`
}

// Scores holds one entry per class, sorted by descending score. Entries with
// equal scores keep the order of Classes.
type Scores []ClassScore

// Get returns the score of c, or 0 if c is absent.
func (s Scores) Get(c Class) float64 {
	for _, cs := range s {
		if cs.Class == c {
			return cs.Score
		}
	}
	return 0
}

// Top returns the highest scoring class.
func (s Scores) Top() Class {
	if len(s) == 0 {
		return Neutral
	}
	return s[0].Class
}

// Category returns the dominant class. When the two best scores are equal
// the result is Neutral, whichever classes tied.
func (s Scores) Category() Class {
	if len(s) > 1 && s[0].Score == s[1].Score {
		return Neutral
	}
	return s.Top()
}

// Map returns the scores keyed by class.
func (s Scores) Map() map[Class]float64 {
	m := make(map[Class]float64, len(s))
	for _, cs := range s {
		m[cs.Class] = cs.Score
	}
	return m
}

// MarshalJSON keeps the sorted order by encoding as a list.
func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal([]ClassScore(s))
}

// Priors maps each class to its prior probability.
type Priors map[Class]float64

// DefaultPriors gives every class roughly a one in three chance.
func DefaultPriors() Priors {
	return Priors{
		Positive: 0.333,
		Negative: 0.333,
		Neutral:  0.334,
	}
}

// Language represents supported languages
type Language string

const (
	English    Language = "en"
	French     Language = "fr"
	Portuguese Language = "pt"
	Spanish    Language = "es"
	German     Language = "de"
)

// LoadReport summarises a lexicon load. It is computed once when a Model is
// built and is never touched while scoring.
type LoadReport struct {
	Classes   map[Class]ClassReport
	Tokens    int // Entries read across all class lists
	Documents int // Same as Tokens; every entry counts as one document
	Ignore    int
	Negations int
	Splits    int
}

// ClassReport holds the load counters for a single class list.
type ClassReport struct {
	Listed     int // Entries read from the provider
	Unique     int // Entries added to the dictionary
	Duplicates int // Entries that were already present for the class
}
