// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Models.Chat != "llama3" {
		t.Errorf("chat model = %q, want llama3", cfg.Models.Chat)
	}
	if cfg.Models.Embedding != "nomic-embed-text" {
		t.Errorf("embedding model = %q, want nomic-embed-text", cfg.Models.Embedding)
	}
	if cfg.Market.NewsLimit != 5 {
		t.Errorf("news limit = %d, want 5", cfg.Market.NewsLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Ollama.URL != "http://127.0.0.1:11434" {
		t.Errorf("ollama url = %q", cfg.Ollama.URL)
	}
}

func TestLoadFromPath_PartialFileFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[models]\nchat = \"mistral\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Models.Chat != "mistral" {
		t.Errorf("chat model = %q, want mistral", cfg.Models.Chat)
	}
	if cfg.Models.Embedding != "nomic-embed-text" {
		t.Errorf("defaults not filled: embedding = %q", cfg.Models.Embedding)
	}
}

func TestLoadFromPath_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("models = {{{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvModel, "phi3")
	t.Setenv(EnvOllamaURL, "http://10.0.0.5:11434")
	t.Setenv(EnvCMCKey, "cmc-secret")
	t.Setenv(EnvCryptoPanicKey, "cp-secret")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Models.Chat != "phi3" {
		t.Errorf("env model override lost: %q", cfg.Models.Chat)
	}
	if cfg.Ollama.URL != "http://10.0.0.5:11434" {
		t.Errorf("env url override lost: %q", cfg.Ollama.URL)
	}
	if cfg.Keys.CoinMarketCap != "cmc-secret" || cfg.Keys.CryptoPanic != "cp-secret" {
		t.Error("API keys not picked up from environment")
	}
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[models]\nchat = \"from-file\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvModel, "from-env")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Models.Chat != "from-env" {
		t.Errorf("chat model = %q, want from-env", cfg.Models.Chat)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid log level error")
	}

	cfg = Default()
	cfg.Ollama.URL = "localhost:11434"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid url error")
	}

	cfg = Default()
	cfg.Market.UseDirectory = true
	cfg.Keys.CoinMarketCap = ""
	if err := cfg.Validate(); err == nil {
		t.Error("directory lookup without API key must not validate")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Models.Chat = "mistral"
	cfg.Paths.DataDir = t.TempDir()

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Keys") || strings.Contains(string(data), "cmc") {
		t.Error("secrets must not be serialized")
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Models.Chat != "mistral" {
		t.Errorf("round trip lost chat model: %q", loaded.Models.Chat)
	}
	if loaded.Paths.DataDir != cfg.Paths.DataDir {
		t.Errorf("round trip lost data dir: %q", loaded.Paths.DataDir)
	}
}

func TestSavePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveToPath(Default(), path); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %o, want 0600", info.Mode().Perm())
	}
}
