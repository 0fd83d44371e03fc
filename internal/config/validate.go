package config

import (
	"fmt"
	"strings"

	"github.com/tsawler/insight"
)

// Validate performs rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if _, err := insight.ParseLanguage(c.Lexicon.Language); err != nil {
		return fmt.Errorf("lexicon.language: %w", err)
	}
	for lang := range c.Lexicon.Extra {
		if _, err := insight.ParseLanguage(lang); err != nil {
			return fmt.Errorf("lexicon.extra: %w", err)
		}
	}

	m := c.Model
	if m.HasPriors() && (m.PriorPositive == 0 || m.PriorNegative == 0 || m.PriorNeutral == 0) {
		return fmt.Errorf("model: prior_pos, prior_neg and prior_neu must be set together")
	}
	if _, err := insight.NewModelOpts(c.ModelOpts(c.Language())...); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}

// Language returns the primary lexicon language.
func (c *Config) Language() insight.Language {
	lang, _ := insight.ParseLanguage(c.Lexicon.Language)
	return lang
}

// ModelOpts converts the model section to library options for a lexicon
// in lang. Only configured fields become options, so a lexicon manifest
// still applies to everything else.
func (c *Config) ModelOpts(lang insight.Language) []insight.ModelOpt {
	opts := []insight.ModelOpt{
		insight.WithName(string(lang)),
		insight.WithLanguage(lang),
	}
	if c.Model.MinTokenLength >= 0 {
		opts = append(opts, insight.WithMinTokenLength(c.Model.MinTokenLength))
	}
	if c.Model.MaxTokenLength != 0 {
		opts = append(opts, insight.WithMaxTokenLength(c.Model.MaxTokenLength))
	}
	if c.Model.HasPriors() {
		opts = append(opts, insight.WithPriors(insight.Priors{
			insight.Positive: c.Model.PriorPositive,
			insight.Negative: c.Model.PriorNegative,
			insight.Neutral:  c.Model.PriorNeutral,
		}))
	}
	if c.Model.Stopwords {
		opts = append(opts, insight.WithStopwords(lang))
	}
	return opts
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
