package insight

import "strings"

// Wildcard marks a dictionary or negation entry as a prefix match.
const Wildcard = "*"

// EntryKind tells how an entry is matched against tokens.
type EntryKind uint8

const (
	Literal EntryKind = iota // Matches the token exactly
	Prefix                   // Matches any token starting with Text
)

// Entry is a parsed dictionary or negation-prefix entry.
type Entry struct {
	Kind EntryKind
	Text string // Text to compare, wildcard removed
	Key  string // Source spelling, used as the dictionary key
}

// ParseEntry classifies a raw list entry once, at load time.
func ParseEntry(raw string) Entry {
	key := strings.TrimSpace(raw)
	if strings.Contains(key, Wildcard) {
		return Entry{Kind: Prefix, Text: strings.ReplaceAll(key, Wildcard, ""), Key: key}
	}
	return Entry{Kind: Literal, Text: key, Key: key}
}

// Match reports whether the entry matches token.
func (e Entry) Match(token string) bool {
	if e.Kind == Prefix {
		return strings.HasPrefix(token, e.Text)
	}
	return token == e.Text
}

// entrySet is an insertion-ordered list of entries. Literal entries are also
// indexed by text so lookups only scan the prefix entries that were loaded
// before the first literal hit.
type entrySet struct {
	entries  []Entry
	literals map[string]int // text -> position of the first literal entry
	prefixes []int          // positions of prefix entries, ascending
	keys     map[string]struct{}
}

func newEntrySet() *entrySet {
	return &entrySet{
		literals: make(map[string]int),
		keys:     make(map[string]struct{}),
	}
}

// add appends e unless an entry with the same key is present.
func (s *entrySet) add(e Entry) bool {
	if _, found := s.keys[e.Key]; found {
		return false
	}
	s.keys[e.Key] = struct{}{}
	pos := len(s.entries)
	s.entries = append(s.entries, e)
	if e.Kind == Prefix {
		s.prefixes = append(s.prefixes, pos)
	} else if _, found := s.literals[e.Text]; !found {
		s.literals[e.Text] = pos
	}
	return true
}

// find returns the first entry, in load order, that matches token.
func (s *entrySet) find(token string) (Entry, bool) {
	literal, hasLiteral := s.literals[token]
	for _, pos := range s.prefixes {
		if hasLiteral && pos > literal {
			break
		}
		if s.entries[pos].Match(token) {
			return s.entries[pos], true
		}
	}
	if hasLiteral {
		return s.entries[literal], true
	}
	return Entry{}, false
}

func (s *entrySet) len() int {
	return len(s.entries)
}

// Dictionary maps word entries to per-class occurrence counts. It is built
// once and read-only afterwards.
type Dictionary struct {
	counts  map[string]map[Class]int
	byClass map[Class]*entrySet
	all     *entrySet
}

func newDictionary() *Dictionary {
	d := &Dictionary{
		counts:  make(map[string]map[Class]int),
		byClass: make(map[Class]*entrySet, len(Classes)),
		all:     newEntrySet(),
	}
	for _, class := range Classes {
		d.byClass[class] = newEntrySet()
	}
	return d
}

// add records raw for class. Duplicates collapse to presence: the count of
// an entry is set on first sight and never incremented. It reports whether
// the entry was new for the class.
func (d *Dictionary) add(class Class, raw string) bool {
	e := ParseEntry(raw)
	if e.Key == "" {
		return false
	}
	if !d.byClass[class].add(e) {
		return false
	}
	d.all.add(e)
	if d.counts[e.Key] == nil {
		d.counts[e.Key] = make(map[Class]int, 1)
	}
	d.counts[e.Key][class] = 1
	return true
}

// Lookup returns the first entry of class, in load order, matching token.
func (d *Dictionary) Lookup(token string, class Class) (Entry, bool) {
	set, ok := d.byClass[class]
	if !ok {
		return Entry{}, false
	}
	return set.find(token)
}

// LookupAny returns the first entry of any class matching token.
func (d *Dictionary) LookupAny(token string) (Entry, bool) {
	return d.all.find(token)
}

// Contains reports whether token matches an entry of any class.
func (d *Dictionary) Contains(token string) bool {
	_, found := d.all.find(token)
	return found
}

// Count returns the occurrence count of the entry key for class.
func (d *Dictionary) Count(key string, class Class) int {
	return d.counts[key][class]
}

// Len returns the number of entries loaded for class.
func (d *Dictionary) Len(class Class) int {
	if set, ok := d.byClass[class]; ok {
		return set.len()
	}
	return 0
}

// NegationList holds negation prefixes in load order.
type NegationList struct {
	set *entrySet
}

func newNegationList(raw []string) NegationList {
	set := newEntrySet()
	for _, r := range raw {
		if e := ParseEntry(r); e.Key != "" {
			set.add(e)
		}
	}
	return NegationList{set: set}
}

// Match reports whether token matches any negation prefix.
func (n NegationList) Match(token string) bool {
	if n.set == nil {
		return false
	}
	_, found := n.set.find(token)
	return found
}

// Len returns the number of negation prefixes.
func (n NegationList) Len() int {
	if n.set == nil {
		return 0
	}
	return n.set.len()
}
