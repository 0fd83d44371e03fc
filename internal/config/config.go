// Package config loads settings for the insight service and CLI.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Lexicon LexiconConfig `yaml:"lexicon"`
	Model   ModelConfig   `yaml:"model"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// LexiconConfig says where word lists come from. An empty Path selects the
// embedded English lexicon. Extra maps further languages to their own
// lexicon paths, for language-routed scoring.
type LexiconConfig struct {
	Path     string            `yaml:"path"     env:"INSIGHT_LEXICON"`
	Language string            `yaml:"language" env:"INSIGHT_LANGUAGE" env-default:"en"`
	Extra    map[string]string `yaml:"extra"    env:"INSIGHT_LEXICON_EXTRA"`
}

// ModelConfig holds scoring thresholds and priors. Unset fields leave the
// value to the lexicon's model.toml, or to the library default: a negative
// MinTokenLength, a zero MaxTokenLength and zero priors are unset. The
// three priors are set together or not at all.
type ModelConfig struct {
	MinTokenLength int     `yaml:"min_token_length" env:"INSIGHT_MIN_TOKEN_LENGTH" env-default:"-1"`
	MaxTokenLength int     `yaml:"max_token_length" env:"INSIGHT_MAX_TOKEN_LENGTH"`
	PriorPositive  float64 `yaml:"prior_pos"        env:"INSIGHT_PRIOR_POS"`
	PriorNegative  float64 `yaml:"prior_neg"        env:"INSIGHT_PRIOR_NEG"`
	PriorNeutral   float64 `yaml:"prior_neu"        env:"INSIGHT_PRIOR_NEU"`
	Stopwords      bool    `yaml:"stopwords"        env:"INSIGHT_STOPWORDS"        env-default:"false"`
}

// HasPriors reports whether any prior is configured.
func (m ModelConfig) HasPriors() bool {
	return m.PriorPositive != 0 || m.PriorNegative != 0 || m.PriorNeutral != 0
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
