// Package config loads application settings. Values are layered: built-in
// defaults, then the TOML file, then TRIVIAZ_* environment variables. The
// CLI applies its flags last.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/abhisek/triviaz/internal/llm"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRIVIAZ_"

// Question sources.
const (
	SourceOpenTDB = "opentdb"
	SourceLLM     = "llm"
)

// Config is the full application configuration.
type Config struct {
	DBPath   string `toml:"db" env:"DB"`
	LogPath  string `toml:"log_file" env:"LOG_FILE"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`

	// Source selects where questions come from.
	Source string `toml:"source" env:"SOURCE"`

	OpenTDB OpenTDBConfig `toml:"opentdb" envPrefix:"OPENTDB_"`

	// Bell rings the terminal bell on answers.
	Bell bool `toml:"bell" env:"BELL"`

	LLM llm.Config `toml:"llm" envPrefix:"LLM_"`
}

// OpenTDBConfig configures the Open Trivia DB client.
type OpenTDBConfig struct {
	BaseURL       string        `toml:"base_url" env:"BASE_URL"`
	Timeout       time.Duration `toml:"timeout" env:"TIMEOUT"`
	SessionTokens bool          `toml:"session_tokens" env:"SESSION_TOKENS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:   DefaultDBPath(),
		LogPath:  DefaultLogPath(),
		LogLevel: "info",
		Source:   SourceOpenTDB,
		OpenTDB: OpenTDBConfig{
			BaseURL:       "https://opentdb.com",
			Timeout:       15 * time.Second,
			SessionTokens: true,
		},
		Bell: true,
		LLM:  llm.DefaultConfig(),
	}
}

// Load layers the TOML file at path and the environment over the defaults.
// A missing file is not an error; an empty path means DefaultConfigPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that have a fixed set of choices. LLM keys are
// only checked when the LLM source is selected.
func (c Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourceOpenTDB, SourceLLM:
	default:
		errs = append(errs, fmt.Errorf("unknown question source %q (want %s or %s)", c.Source, SourceOpenTDB, SourceLLM))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.OpenTDB.Timeout < 0 {
		errs = append(errs, errors.New("opentdb timeout must not be negative"))
	}
	return errors.Join(errs...)
}
