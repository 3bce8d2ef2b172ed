// Package sentiment scores text on a compound scale from -1 (most negative)
// to +1 (most positive).
package sentiment

import (
	"context"
	"fmt"

	"github.com/TobiSchelling/moodmap/internal/config"
	"github.com/TobiSchelling/moodmap/internal/llm"
)

// Scorer returns the compound sentiment of text in [-1, 1].
// Empty text scores 0.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// New creates the configured scorer. provider is only used by the llm
// scorer and may be nil otherwise.
func New(cfg config.Sentiment, provider llm.Provider) (Scorer, error) {
	switch cfg.Provider {
	case "lexicon":
		return NewLexiconScorer(), nil
	case "llm":
		if provider == nil {
			return nil, fmt.Errorf("llm scorer requires an LLM provider")
		}
		return NewLLMScorer(provider), nil
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q", cfg.Provider)
	}
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
