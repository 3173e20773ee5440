// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for coinassist.
//
// Configuration lives in ~/.coinassist/config.toml with sensible defaults and
// environment variable overrides. API keys are taken from the environment
// only (with .env support), never from the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/coinassist-tui/internal/util"
)

// Environment variables read at load time. The two API keys are secrets and
// deliberately have no config-file counterpart.
const (
	EnvCMCKey         = "COINMARKETCAP_API_KEY"
	EnvCryptoPanicKey = "CRYPTOPANIC_API_KEY"
	EnvModel          = "COINASSIST_MODEL"
	EnvOllamaURL      = "COINASSIST_OLLAMA_URL"
	EnvDataDir        = "COINASSIST_DATA_DIR"
	EnvLogLevel       = "COINASSIST_LOG_LEVEL"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete coinassist configuration.
type Config struct {
	Models ModelsConfig `toml:"models"`
	Ollama OllamaConfig `toml:"ollama"`
	Market MarketConfig `toml:"market"`
	Paths  PathsConfig  `toml:"paths"`
	Log    LogConfig    `toml:"log"`

	// Keys are environment-only and never serialized.
	Keys Keys `toml:"-"`
}

// ModelsConfig names the Ollama models used for answering and embedding.
type ModelsConfig struct {
	// Chat is the preferred answer model.
	Chat string `toml:"chat"`
	// Fallback is tried once when Chat is not available.
	Fallback string `toml:"fallback"`
	// Embedding is the model used to vectorize documents and questions.
	Embedding string `toml:"embedding"`
}

// OllamaConfig contains the Ollama server settings.
type OllamaConfig struct {
	URL string `toml:"url"`
}

// MarketConfig tunes the market data gateway.
type MarketConfig struct {
	// NewsLimit is how many headlines to include per turn.
	NewsLimit int `toml:"news_limit"`
	// UseDirectory enables CoinMarketCap directory lookup as a last
	// resolution stage. Requires an API key.
	UseDirectory bool `toml:"use_directory"`
}

// PathsConfig places the on-disk state.
type PathsConfig struct {
	// DataDir holds the history file, the retrieval index, and logs.
	// Empty means ~/.coinassist.
	DataDir string `toml:"data_dir"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `toml:"level"`
}

// Keys are the API secrets, sourced from the environment.
type Keys struct {
	CoinMarketCap string
	CryptoPanic   string
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Models: ModelsConfig{
			Chat:      "llama3",
			Fallback:  "llama3",
			Embedding: "nomic-embed-text",
		},
		Ollama: OllamaConfig{
			URL: "http://127.0.0.1:11434",
		},
		Market: MarketConfig{
			NewsLimit: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns ~/.coinassist.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".coinassist"), nil
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir resolves the effective data directory, creating it if needed.
func (c *Config) DataDir() (string, error) {
	dir := c.Paths.DataDir
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// HistoryPath is the CSV history file inside the data dir.
func (c *Config) HistoryPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chat_history.csv"), nil
}

// StoreDir is the retrieval index directory inside the data dir.
func (c *Config) StoreDir() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db"), nil
}

// LogPath is the session log file inside the data dir.
func (c *Config) LogPath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "coinassist.log"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file (if present), fills defaults, applies
// environment overrides, and picks up API keys. A missing file is not an
// error; a malformed one is.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	// Best-effort .env: absence is the common case.
	_ = godotenv.Load()

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Models.Chat == "" {
		c.Models.Chat = def.Models.Chat
	}
	if c.Models.Fallback == "" {
		c.Models.Fallback = def.Models.Fallback
	}
	if c.Models.Embedding == "" {
		c.Models.Embedding = def.Models.Embedding
	}
	if c.Ollama.URL == "" {
		c.Ollama.URL = def.Ollama.URL
	}
	if c.Market.NewsLimit <= 0 {
		c.Market.NewsLimit = def.Market.NewsLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// ApplyEnvOverrides applies environment variables on top of file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvModel); v != "" {
		c.Models.Chat = v
	}
	if v := os.Getenv(EnvOllamaURL); v != "" {
		c.Ollama.URL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	c.Keys.CoinMarketCap = os.Getenv(EnvCMCKey)
	c.Keys.CryptoPanic = os.Getenv(EnvCryptoPanicKey)
}

// Validate checks field values that would fail later in confusing ways.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (want trace, debug, info, warn, or error)", c.Log.Level)
	}
	if !strings.HasPrefix(c.Ollama.URL, "http://") && !strings.HasPrefix(c.Ollama.URL, "https://") {
		return fmt.Errorf("invalid ollama url %q", c.Ollama.URL)
	}
	if c.Market.UseDirectory && c.Keys.CoinMarketCap == "" {
		return fmt.Errorf("market.use_directory requires %s to be set", EnvCMCKey)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to a specific file path atomically,
// with owner-only permissions.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# coinassist configuration file\n")
	sb.WriteString("# API keys are read from the environment, not from this file.\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
