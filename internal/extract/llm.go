package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/TobiSchelling/moodmap/internal/llm"
)

const placesPrompt = `List every geopolitical entity (countries, cities, states, regions) mentioned in the text below.

Copy each name exactly as it is written in the text. Do not translate, expand or normalize names.
Respond with ONLY a JSON array of strings, for example ["Paris", "United States"]. Respond with [] if there are none.

Text:
%s`

// LLMExtractor asks an LLM for place names. Names that do not occur verbatim
// in the text are discarded.
type LLMExtractor struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMExtractor creates a new LLM-backed extractor.
func NewLLMExtractor(provider llm.Provider) *LLMExtractor {
	return &LLMExtractor{provider: provider, maxTokens: 256}
}

// Places returns the place names the model found in text.
func (e *LLMExtractor) Places(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	resp, err := e.provider.Generate(ctx, fmt.Sprintf(placesPrompt, text), e.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("extracting places: %w", err)
	}

	names, ok := llm.ParseJSONArray(resp)
	if !ok {
		return nil, fmt.Errorf("extracting places: unparseable response %q", truncate(resp, 120))
	}

	kept := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && strings.Contains(text, n) {
			kept = append(kept, n)
		}
	}
	return distinct(kept), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
