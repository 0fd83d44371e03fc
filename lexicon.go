package insight

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Names of the auxiliary lists requested from a LexiconProvider. The class
// lists are requested by class name ("pos", "neg", "neu").
const (
	ListIgnore           = "ignore"
	ListNegationPrefixes = "negation-prefixes"
	ListSplitWords       = "split-words"
)

// ListNames returns every list a Model asks its provider for, class lists
// first.
func ListNames() []string {
	names := make([]string, 0, len(Classes)+3)
	for _, class := range Classes {
		names = append(names, string(class))
	}
	return append(names, ListIgnore, ListNegationPrefixes, ListSplitWords)
}

var (
	// ErrListNotFound is returned (wrapped) by providers that have no list
	// with the requested name.
	ErrListNotFound = errors.New("insight: lexicon list not found")

	// ErrMissingLexicon means a class dictionary could not be loaded.
	ErrMissingLexicon = errors.New("insight: missing class lexicon")
)

// LexiconProvider supplies already-parsed word lists by name.
type LexiconProvider interface {
	Load(name string) ([]string, error)
}

// MapLexicon is an in-memory provider.
type MapLexicon map[string][]string

// Load returns a copy of the named list.
func (m MapLexicon) Load(name string) ([]string, error) {
	words, found := m[name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	return append([]string(nil), words...), nil
}

// FSLexicon reads one "<name>.txt" file per list from a file system. Files
// hold one entry per line; blank lines and lines starting with '#' are
// skipped.
type FSLexicon struct {
	fsys fs.FS
}

// NewFSLexicon creates a provider rooted at fsys.
func NewFSLexicon(fsys fs.FS) *FSLexicon {
	return &FSLexicon{fsys: fsys}
}

// Load reads the named list.
func (l *FSLexicon) Load(name string) ([]string, error) {
	file, err := l.fsys.Open(name + ".txt")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("insight: open list %s: %w", name, err)
	}
	defer file.Close()

	words, err := readList(file)
	if err != nil {
		return nil, fmt.Errorf("insight: read list %s: %w", name, err)
	}
	return words, nil
}

func readList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

// YAMLLexicon holds lists parsed from a single YAML (or JSON) document:
//
//	pos: [good, great, "amaz*"]
//	neg: [bad, "terribl*"]
//	neu: [okay]
//	negation-prefixes: [not, "isn"]
//
// A key that is absent is reported as a missing list; an empty sequence is
// an empty list.
type YAMLLexicon struct {
	lists map[string][]string
}

// ParseYAMLLexicon decodes a YAML lexicon document.
func ParseYAMLLexicon(data []byte) (*YAMLLexicon, error) {
	var lists map[string][]string
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("insight: parse yaml lexicon: %w", err)
	}
	if lists == nil {
		lists = make(map[string][]string)
	}
	return &YAMLLexicon{lists: lists}, nil
}

// LoadYAMLLexicon reads and decodes a YAML lexicon file.
func LoadYAMLLexicon(path string) (*YAMLLexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("insight: read yaml lexicon: %w", err)
	}
	return ParseYAMLLexicon(data)
}

// Load returns the named list.
func (l *YAMLLexicon) Load(name string) ([]string, error) {
	return MapLexicon(l.lists).Load(name)
}

// Bundle is a compiled lexicon: every list of a provider gathered into one
// msgpack document. A Bundle is itself a LexiconProvider.
type Bundle struct {
	Language Language            `msgpack:"language"`
	Lists    map[string][]string `msgpack:"lists"`
}

// BundleFrom gathers every list in ListNames from p. Lists the provider does
// not have are left out, so they stay missing when the bundle is loaded.
func BundleFrom(p LexiconProvider, lang Language) (*Bundle, error) {
	p, err := snapshot(p)
	if err != nil {
		return nil, err
	}
	bundle := &Bundle{Language: lang, Lists: make(map[string][]string)}
	for _, name := range ListNames() {
		words, err := p.Load(name)
		if errors.Is(err, ErrListNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		bundle.Lists[name] = words
	}
	return bundle, nil
}

// Load returns the named list.
func (b *Bundle) Load(name string) ([]string, error) {
	return MapLexicon(b.Lists).Load(name)
}

// WriteBundle encodes b as msgpack.
func WriteBundle(w io.Writer, b *Bundle) error {
	if err := msgpack.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("insight: encode bundle: %w", err)
	}
	return nil
}

// ReadBundle decodes a msgpack bundle.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := msgpack.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("insight: decode bundle: %w", err)
	}
	if b.Lists == nil {
		b.Lists = make(map[string][]string)
	}
	return &b, nil
}

// LoadBundle reads a bundle file.
func LoadBundle(path string) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("insight: open bundle: %w", err)
	}
	defer file.Close()
	return ReadBundle(bufio.NewReader(file))
}

// A Snapshotter can freeze its lists for the duration of one Model build.
// NewModel and BundleFrom load every list from the snapshot, so a provider
// backed by a single file reads it once per build.
type Snapshotter interface {
	Snapshot() (LexiconProvider, error)
}

func snapshot(p LexiconProvider) (LexiconProvider, error) {
	if s, ok := p.(Snapshotter); ok {
		return s.Snapshot()
	}
	return p, nil
}

// FileLexicon is a YAML/JSON document or msgpack bundle on disk. The file is
// read again for every Model build, so Analyzer.Reload picks up edits.
type FileLexicon struct {
	path string
	read func(path string) (LexiconProvider, error)
}

// NewFileLexicon checks that path holds a readable lexicon and returns a
// provider that re-reads it on demand.
func NewFileLexicon(path string) (*FileLexicon, error) {
	l := &FileLexicon{path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		l.read = func(path string) (LexiconProvider, error) { return LoadYAMLLexicon(path) }
	case ".msgpack", ".mpk":
		l.read = func(path string) (LexiconProvider, error) { return LoadBundle(path) }
	default:
		return nil, fmt.Errorf("insight: unknown lexicon format %q", filepath.Ext(path))
	}
	if _, err := l.Snapshot(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the file the lexicon is read from.
func (l *FileLexicon) Path() string {
	return l.path
}

// Snapshot reads and parses the file.
func (l *FileLexicon) Snapshot() (LexiconProvider, error) {
	return l.read(l.path)
}

// Load reads the file and returns the named list.
func (l *FileLexicon) Load(name string) ([]string, error) {
	p, err := l.Snapshot()
	if err != nil {
		return nil, err
	}
	return p.Load(name)
}

// OpenLexicon picks a provider for path: a directory of .txt lists, a
// .yaml/.yml/.json document, or a .msgpack bundle. Every provider it returns
// reflects the files as they are when a Model is built.
func OpenLexicon(path string) (LexiconProvider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("insight: open lexicon: %w", err)
	}
	if info.IsDir() {
		return NewFSLexicon(os.DirFS(path)), nil
	}
	return NewFileLexicon(path)
}

//go:embed data/en/*.txt
var defaultData embed.FS

// DefaultLexicon returns the embedded English lexicon.
func DefaultLexicon() LexiconProvider {
	sub, err := fs.Sub(defaultData, "data/en")
	checkError(err)
	return NewFSLexicon(sub)
}

func checkError(err error) {
	if err != nil {
		panic(err)
	}
}
