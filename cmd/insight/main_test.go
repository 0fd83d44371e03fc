package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/insight"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("INSIGHT_CONFIG", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCategorise(t *testing.T) {
	out, err := run(t, "", "categorise", "Weather", "today", "is", "rubbish")
	require.NoError(t, err)
	assert.Equal(t, "neg\n", out)
}

func TestCategoriseStdin(t *testing.T) {
	out, err := run(t, "He is very talented\n\nHis skills are mediocre\n", "categorise")
	require.NoError(t, err)
	assert.Equal(t, "pos\nneu\n", out)
}

func TestScorePretty(t *testing.T) {
	out, err := run(t, "", "score", "This cake looks amazing")
	require.NoError(t, err)
	assert.Equal(t, "pos\tpos=0.500 neu=0.251 neg=0.250\tThis cake looks amazing\n", out)
}

func TestScoreJSON(t *testing.T) {
	out, err := run(t, "", "score", "--format", "json", "The food is not good")
	require.NoError(t, err)

	var res scoreResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, insight.Negative, res.Category)
	assert.Equal(t, insight.English, res.Language)
	assert.InDelta(t, 0.5, res.Scores.Get(insight.Negative), 1e-9)
}

func TestScoreUnknownFormat(t *testing.T) {
	_, err := run(t, "", "score", "--format", "xml", "text")
	assert.ErrorContains(t, err, "unknown format")
}

func TestAnalyze(t *testing.T) {
	out, err := run(t, "", "analyze", "--format", "json", "The food is not good. He is very talented.")
	require.NoError(t, err)

	var doc insight.DocumentSentiment
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, insight.Negative, doc.Sentences[0].Class)
	assert.Equal(t, insight.Positive, doc.Sentences[1].Class)
}

func TestEvaluate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(`text,label
Weather today is rubbish,neg
He is very talented,pos
This cake looks amazing,positive
His skills are mediocre,neu
The food is good,neg
`), 0o644))

	out, err := run(t, "", "evaluate", "--errors", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Accuracy: 80.00% (4/5)")
	assert.Contains(t, out, "want neg got pos: The food is good")
	assert.Contains(t, out, "neg -> pos:1 neg:1 neu:0")
}

func TestCompileAndLoadBundle(t *testing.T) {
	dir := t.TempDir()
	lexicon := filepath.Join(dir, "lexicon.yaml")
	require.NoError(t, os.WriteFile(lexicon, []byte(`
pos: [bon]
neg: [mauvais]
neu: [moyen]
negation-prefixes: [pas]
`), 0o644))
	bundle := filepath.Join(dir, "fr.msgpack")

	out, err := run(t, "", "--lang", "fr", "compile", "-o", bundle, lexicon)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+bundle)

	out, err = run(t, "", "--lexicon", bundle, "--lang", "fr", "categorise", "pas mauvais")
	require.NoError(t, err)
	assert.Equal(t, "pos\n", out)
}

func TestCompileRejectsIncompleteLexicon(t *testing.T) {
	lexicon := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(lexicon, []byte("pos: [bon]\n"), 0o644))

	_, err := run(t, "", "compile", "-o", filepath.Join(t.TempDir(), "x.msgpack"), lexicon)
	assert.ErrorIs(t, err, insight.ErrMissingLexicon)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "insight dev"))

	out, err = run(t, "", "version", "--format", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "insight", payload.Tool)
}
