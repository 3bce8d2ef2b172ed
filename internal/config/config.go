package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	News        News        `yaml:"news"`
	Fetch       Fetch       `yaml:"fetch"`
	Extraction  Extraction  `yaml:"extraction"`
	Sentiment   Sentiment   `yaml:"sentiment"`
	Aggregation Aggregation `yaml:"aggregation"`
	LLM         LLM         `yaml:"llm"`
	Geocoder    Geocoder    `yaml:"geocoder"`
	Output      Output      `yaml:"output"`
	Server      Server      `yaml:"server"`
	Logging     Logging     `yaml:"logging"`
}

type News struct {
	Source    string `yaml:"source"`
	APIKeyEnv string `yaml:"api_key_env"`
	Days      int    `yaml:"days"`
	PageSize  int    `yaml:"page_size"`
	Language  string `yaml:"language"`
	SortBy    string `yaml:"sort_by"`
}

type Fetch struct {
	FillMissingDescriptions bool `yaml:"fill_missing_descriptions"`
	TimeoutSeconds          int  `yaml:"timeout_seconds"`
}

type Extraction struct {
	Provider string `yaml:"provider"`
	KeyMode  string `yaml:"key_mode"`
}

type Sentiment struct {
	Provider string `yaml:"provider"`
}

type Aggregation struct {
	Workers int `yaml:"workers"`
}

type LLM struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	OllamaURL       string `yaml:"ollama_url"`
	OpenAIModel     string `yaml:"openai_model"`
	OpenAIAPIKeyEnv string `yaml:"openai_api_key_env"`
	GeminiModel     string `yaml:"gemini_model"`
	GeminiAPIKeyEnv string `yaml:"gemini_api_key_env"`
}

type Geocoder struct {
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	IntervalMS     int    `yaml:"interval_ms"`
}

type Output struct {
	Path string `yaml:"path"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for moodmap.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "moodmap")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/moodmap/config.yaml > ./config.yaml
// An empty path with a nil error means no file was found and the
// embedded defaults should be used.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path loads the
// embedded default config.
func Load(path string) (*Config, error) {
	if path == "" {
		return parse(DefaultConfigYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		News: News{
			Source:    "newsapi",
			APIKeyEnv: "NEWSAPI_KEY",
			Days:      5,
			PageSize:  100,
			Language:  "en",
			SortBy:    "publishedAt",
		},
		Fetch: Fetch{TimeoutSeconds: 15},
		Extraction: Extraction{
			Provider: "prose",
			KeyMode:  "exact",
		},
		Sentiment:   Sentiment{Provider: "lexicon"},
		Aggregation: Aggregation{Workers: 1},
		LLM: LLM{
			Provider:        "ollama",
			Model:           "qwen2.5:7b",
			OllamaURL:       "http://localhost:11434",
			OpenAIModel:     "gpt-4o-mini",
			OpenAIAPIKeyEnv: "OPENAI_API_KEY",
			GeminiModel:     "gemini-1.5-flash",
			GeminiAPIKeyEnv: "GEMINI_API_KEY",
		},
		Geocoder: Geocoder{
			BaseURL:        "https://nominatim.openstreetmap.org",
			UserAgent:      "geo_location_happiness",
			TimeoutSeconds: 5,
			IntervalMS:     1000,
		},
		Output:  Output{Path: "location_coordinates_cleaned.json"},
		Server:  Server{Host: "127.0.0.1", Port: 5000},
		Logging: Logging{Level: "info"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.News.Source {
	case "newsapi", "rss":
	default:
		return fmt.Errorf("unknown news source %q", c.News.Source)
	}
	switch c.Extraction.Provider {
	case "prose", "llm":
	default:
		return fmt.Errorf("unknown extraction provider %q", c.Extraction.Provider)
	}
	switch c.Extraction.KeyMode {
	case "exact", "casefold":
	default:
		return fmt.Errorf("unknown extraction key_mode %q", c.Extraction.KeyMode)
	}
	switch c.Sentiment.Provider {
	case "lexicon", "llm":
	default:
		return fmt.Errorf("unknown sentiment provider %q", c.Sentiment.Provider)
	}
	if c.News.Days <= 0 {
		return fmt.Errorf("news.days must be positive, got %d", c.News.Days)
	}
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		return fmt.Errorf("news.page_size must be between 1 and 100, got %d", c.News.PageSize)
	}
	if c.Geocoder.IntervalMS < 0 {
		return fmt.Errorf("geocoder.interval_ms must not be negative")
	}
	return nil
}

// GeocoderTimeout returns the per-request geocoder timeout.
func (c *Config) GeocoderTimeout() time.Duration {
	if c.Geocoder.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Geocoder.TimeoutSeconds) * time.Second
}

// GeocoderInterval returns the minimum delay between geocoder calls.
func (c *Config) GeocoderInterval() time.Duration {
	return time.Duration(c.Geocoder.IntervalMS) * time.Millisecond
}

// FetchTimeout returns the content fetcher HTTP timeout.
func (c *Config) FetchTimeout() time.Duration {
	if c.Fetch.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
