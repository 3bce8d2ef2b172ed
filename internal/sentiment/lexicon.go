package sentiment

import (
	"context"
	"strings"

	"github.com/jonreiter/govader"
)

// LexiconScorer is an offline, deterministic VADER scorer. It is safe for
// concurrent use.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexiconScorer loads the VADER lexicon.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the VADER compound score of text. Text without any lexicon
// word scores 0.
func (s *LexiconScorer) Score(_ context.Context, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	return clamp(s.analyzer.PolarityScores(text).Compound), nil
}
