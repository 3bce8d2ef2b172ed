// Package extract finds geopolitical place mentions in article text.
package extract

import (
	"context"
	"fmt"

	"github.com/TobiSchelling/moodmap/internal/config"
	"github.com/TobiSchelling/moodmap/internal/llm"
)

// Extractor returns the distinct place mentions found in text, as exact
// text spans in order of first appearance.
type Extractor interface {
	Places(ctx context.Context, text string) ([]string, error)
}

// New creates the configured extractor. provider is only used by the llm
// extractor and may be nil otherwise.
func New(cfg config.Extraction, provider llm.Provider) (Extractor, error) {
	switch cfg.Provider {
	case "prose":
		return NewProseExtractor(), nil
	case "llm":
		if provider == nil {
			return nil, fmt.Errorf("llm extractor requires an LLM provider")
		}
		return NewLLMExtractor(provider), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Provider)
	}
}

// distinct drops empty and repeated names, keeping first-seen order.
func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
