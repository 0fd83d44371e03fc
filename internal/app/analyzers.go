package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/insight"
	"github.com/tsawler/insight/internal/config"
)

// OpenAnalyzer builds an Analyzer for the lexicon at path in lang. An empty
// path selects the embedded English lexicon. A directory may carry a
// model.toml whose settings apply before opts.
func OpenAnalyzer(path string, lang insight.Language, logger *slog.Logger, opts ...insight.ModelOpt) (*insight.Analyzer, error) {
	opts = append(opts, insight.WithLogger(logger))
	if path == "" {
		if lang != insight.English {
			return nil, fmt.Errorf("%w: no embedded lexicon for %s", insight.ErrUnsupportedLanguage, lang)
		}
		return insight.NewAnalyzer(insight.DefaultLexicon(), opts...)
	}

	provider, err := insight.OpenLexicon(path)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		manifestOpts, err := insight.ReadManifest(os.DirFS(path))
		if err != nil {
			return nil, err
		}
		opts = append(manifestOpts, opts...)
	}
	return insight.NewAnalyzer(provider, opts...)
}

// NewRouter builds one Analyzer per configured lexicon and routes between
// them, falling back to the primary language.
func NewRouter(cfg *config.Config, logger *slog.Logger) (*insight.Multilingual, error) {
	primary := cfg.Language()
	analyzers := make(map[insight.Language]*insight.Analyzer, 1+len(cfg.Lexicon.Extra))

	a, err := OpenAnalyzer(cfg.Lexicon.Path, primary, logger, cfg.ModelOpts(primary)...)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", primary, err)
	}
	analyzers[primary] = a

	for code, path := range cfg.Lexicon.Extra {
		lang, err := insight.ParseLanguage(code)
		if err != nil {
			return nil, err
		}
		a, err := OpenAnalyzer(path, lang, logger, cfg.ModelOpts(lang)...)
		if err != nil {
			return nil, fmt.Errorf("lexicon %s: %w", lang, err)
		}
		analyzers[lang] = a
	}

	logger.Info("lexicons loaded", slog.Int("languages", len(analyzers)), slog.String("fallback", string(primary)))
	return insight.NewMultilingual(primary, analyzers)
}
