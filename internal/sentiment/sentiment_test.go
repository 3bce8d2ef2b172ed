package sentiment

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/TobiSchelling/moodmap/internal/config"
)

var lexicon = NewLexiconScorer()

func score(t *testing.T, text string) float64 {
	t.Helper()
	v, err := lexicon.Score(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func assertScore(t *testing.T, text string, want float64) {
	t.Helper()
	if got := score(t, text); math.Abs(got-want) > 1e-3 {
		t.Errorf("%q: expected %.4f, got %.4f", text, want, got)
	}
}

func TestLexiconEmptyText(t *testing.T) {
	if v := score(t, ""); v != 0 {
		t.Errorf("expected 0 for empty text, got %f", v)
	}
	if v := score(t, "  \n "); v != 0 {
		t.Errorf("expected 0 for blank text, got %f", v)
	}
}

func TestLexiconNeutralText(t *testing.T) {
	if v := score(t, "The committee met on Tuesday."); v != 0 {
		t.Errorf("expected 0 for neutral text, got %f", v)
	}
}

func TestLexiconCompoundScores(t *testing.T) {
	// tension = -1.3; -1.3 / sqrt(1.3^2 + 15)
	assertScore(t, "Paris and Berlin face tension", -0.3182)
	assertScore(t, "The book was good.", 0.4404)
}

func TestLexiconNegation(t *testing.T) {
	assertScore(t, "Sentiment analysis has never been good.", -0.3412)
	if v := score(t, "The talks weren't a success"); v >= 0 {
		t.Errorf("expected contraction negation to flip sign, got %f", v)
	}
}

func TestLexiconIntensifiersAndEmphasis(t *testing.T) {
	assertScore(t, "VADER is smart, handsome, and funny.", 0.8316)
	assertScore(t, "VADER is smart, handsome, and funny!", 0.8439)
	assertScore(t, "VADER is very smart, handsome, and funny.", 0.8545)
}

func TestLexiconContrast(t *testing.T) {
	assertScore(t, "The plot was good, but the characters are uncompelling and the dialog is not great.", -0.7042)
}

func TestLexiconBounded(t *testing.T) {
	text := strings.Repeat("wonderful amazing ", 50) + "!!!"
	if v := score(t, text); v > 1 || v < 0.99 {
		t.Errorf("expected score close to but not above 1, got %f", v)
	}
	text = strings.Repeat("war killed tragedy ", 50)
	if v := score(t, text); v < -1 || v > -0.99 {
		t.Errorf("expected score close to but not below -1, got %f", v)
	}
}

type mockProvider struct {
	response string
	err      error
	calls    int
}

func (m *mockProvider) Generate(context.Context, string, int) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockProvider) IsConfigured() bool { return true }

func TestLLMScorer(t *testing.T) {
	tests := []struct {
		resp string
		want float64
	}{
		{`{"compound": 0.35}`, 0.35},
		{"```json\n{\"compound\": -0.8}\n```", -0.8},
		{`{"compound": 3}`, 1},
		{`{"compound": -1.5}`, -1},
	}
	for _, tt := range tests {
		v, err := NewLLMScorer(&mockProvider{response: tt.resp}).Score(context.Background(), "some text")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.resp, err)
			continue
		}
		if v != tt.want {
			t.Errorf("%s: expected %f, got %f", tt.resp, tt.want, v)
		}
	}
}

func TestLLMScorerEmptyTextSkipsProvider(t *testing.T) {
	p := &mockProvider{response: `{"compound": 0.9}`}
	v, err := NewLLMScorer(p).Score(context.Background(), "")
	if err != nil || v != 0 {
		t.Errorf("expected 0, got %f %v", v, err)
	}
	if p.calls != 0 {
		t.Errorf("expected no provider calls, got %d", p.calls)
	}
}

func TestLLMScorerErrors(t *testing.T) {
	if _, err := NewLLMScorer(&mockProvider{err: errors.New("down")}).Score(context.Background(), "x"); err == nil {
		t.Error("expected provider error")
	}
	if _, err := NewLLMScorer(&mockProvider{response: "positive"}).Score(context.Background(), "x"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := NewLLMScorer(&mockProvider{response: `{"compound": "high"}`}).Score(context.Background(), "x"); err == nil {
		t.Error("expected type error")
	}
}

func TestNew(t *testing.T) {
	if _, err := New(config.Sentiment{Provider: "lexicon"}, nil); err != nil {
		t.Errorf("lexicon: %v", err)
	}
	if _, err := New(config.Sentiment{Provider: "llm"}, nil); err == nil {
		t.Error("llm without provider should fail")
	}
	if _, err := New(config.Sentiment{Provider: "vader"}, nil); err == nil {
		t.Error("unknown provider should fail")
	}
}
