package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.News.Source != "newsapi" {
		t.Errorf("expected source 'newsapi', got %q", cfg.News.Source)
	}
	if cfg.News.Days != 5 {
		t.Errorf("expected 5 days, got %d", cfg.News.Days)
	}
	if cfg.News.PageSize != 100 {
		t.Errorf("expected page size 100, got %d", cfg.News.PageSize)
	}
	if cfg.Output.Path != "location_coordinates_cleaned.json" {
		t.Errorf("unexpected output path %q", cfg.Output.Path)
	}
	if cfg.Extraction.KeyMode != "exact" {
		t.Errorf("expected exact key mode, got %q", cfg.Extraction.KeyMode)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
sentiment:
  provider: llm
geocoder:
  interval_ms: 250
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Sentiment.Provider != "llm" {
		t.Errorf("expected provider 'llm', got %q", cfg.Sentiment.Provider)
	}
	if cfg.GeocoderInterval() != 250*time.Millisecond {
		t.Errorf("expected 250ms interval, got %v", cfg.GeocoderInterval())
	}
	// Defaults should still be set for unspecified fields
	if cfg.GeocoderTimeout() != 5*time.Second {
		t.Errorf("expected default 5s timeout, got %v", cfg.GeocoderTimeout())
	}
	if cfg.LLM.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected default ollama_url, got %q", cfg.LLM.OllamaURL)
	}
}

func TestParseRejectsUnknownProvider(t *testing.T) {
	cases := map[string]string{
		"source":    "news:\n  source: twitter\n",
		"extractor": "extraction:\n  provider: spacy\n",
		"key_mode":  "extraction:\n  key_mode: soundex\n",
		"sentiment": "sentiment:\n  provider: vader\n",
		"page_size": "news:\n  page_size: 500\n",
	}
	for name, data := range cases {
		if _, err := parse([]byte(data)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("news:\n  days: 2\n"), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.News.Days != 2 {
		t.Errorf("expected 2 days from file, got %d", cfg.News.Days)
	}
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	if cfg.Geocoder.UserAgent == "" {
		t.Error("expected a geocoder user agent")
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
