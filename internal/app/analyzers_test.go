package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/insight"
	"github.com/tsawler/insight/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Lexicon: config.LexiconConfig{Language: "en"},
		Model:   config.ModelConfig{MinTokenLength: -1},
	}
}

func TestOpenAnalyzer_Embedded(t *testing.T) {
	a, err := OpenAnalyzer("", insight.English, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, insight.Negative, a.Categorise("Weather today is rubbish"))

	_, err = OpenAnalyzer("", insight.French, discardLogger())
	assert.ErrorIs(t, err, insight.ErrUnsupportedLanguage)
}

func TestOpenAnalyzer_DirectoryWithManifest(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"pos.txt":         "bon\n",
		"neg.txt":         "mauvais\n",
		"neu.txt":         "moyen\n",
		"model.toml":      "[model]\nname = \"fr-test\"\nlanguage = \"fr\"\n",
		"split-words.txt": ".\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	a, err := OpenAnalyzer(dir, insight.French, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "fr-test", a.Model().Name)
	assert.Equal(t, insight.Positive, a.Categorise("c'est bon"))
}

func TestNewRouter_ManifestReachesModel(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"pos.txt":    "good\nlovely\n",
		"neg.txt":    "bad\n",
		"neu.txt":    "meh\n",
		"model.toml": "[model]\nmax_token_length = 5\n\n[priors]\npos = 0.2\nneg = 0.2\nneu = 0.6\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	t.Chdir(t.TempDir())
	t.Setenv("INSIGHT_CONFIG", "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Lexicon.Path = dir

	router, err := NewRouter(cfg, discardLogger())
	require.NoError(t, err)
	a, err := router.Analyzer(insight.English)
	require.NoError(t, err)

	assert.Equal(t, insight.Priors{insight.Positive: 0.2, insight.Negative: 0.2, insight.Neutral: 0.6}, a.Model().Priors())
	assert.Equal(t, insight.Neutral, a.Categorise("good"), "pos 0.4 against neu 0.6")
	assert.Equal(t, insight.Neutral, a.Categorise("lovely lovely"), "lovely is too long for max_token_length 5")

	cfg.Model.PriorPositive, cfg.Model.PriorNegative, cfg.Model.PriorNeutral = 0.4, 0.3, 0.3
	router, err = NewRouter(cfg, discardLogger())
	require.NoError(t, err)
	a, err = router.Analyzer(insight.English)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, a.Model().Priors()[insight.Positive], 1e-9, "configured priors override the manifest")
	assert.Equal(t, insight.Positive, a.Categorise("good"))
}

func TestNewRouter(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "fr.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
pos: [bon, "excellent*"]
neg: [mauvais, nul]
neu: [moyen]
negation-prefixes: [pas]
`), 0o644))

	cfg := testConfig()
	cfg.Lexicon.Extra = map[string]string{"fr": yamlPath}

	router, err := NewRouter(cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []insight.Language{insight.English, insight.French}, router.Languages())

	lang, class := router.Categorise("Le service est vraiment nul et la cuisine est froide")
	assert.Equal(t, insight.French, lang)
	assert.Equal(t, insight.Negative, class)

	lang, class = router.Categorise("The food is not good and the service was slow")
	assert.Equal(t, insight.English, lang)
	assert.Equal(t, insight.Negative, class)
}

func TestNewRouter_BadLexicon(t *testing.T) {
	cfg := testConfig()
	cfg.Lexicon.Path = filepath.Join(t.TempDir(), "missing")
	_, err := NewRouter(cfg, discardLogger())
	assert.Error(t, err)
}
