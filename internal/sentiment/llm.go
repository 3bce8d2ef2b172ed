package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/TobiSchelling/moodmap/internal/llm"
)

const scorePrompt = `Rate the overall sentiment of the news text below on a scale from -1.0 (very negative) to 1.0 (very positive), where 0.0 is neutral.

Respond with ONLY a JSON object: {"compound": <number>}

Text:
%s`

// LLMScorer asks an LLM for a compound score.
type LLMScorer struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMScorer creates a new LLM-backed scorer.
func NewLLMScorer(provider llm.Provider) *LLMScorer {
	return &LLMScorer{provider: provider, maxTokens: 32}
}

// Score returns the model's compound score for text, clamped to [-1, 1].
func (s *LLMScorer) Score(ctx context.Context, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	resp, err := s.provider.Generate(ctx, fmt.Sprintf(scorePrompt, text), s.maxTokens)
	if err != nil {
		return 0, fmt.Errorf("scoring sentiment: %w", err)
	}

	parsed := llm.ParseJSONResponse(resp)
	v, ok := parsed["compound"].(float64)
	if !ok {
		return 0, fmt.Errorf("scoring sentiment: unparseable response %q", resp)
	}
	return clamp(v), nil
}
