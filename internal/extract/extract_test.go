package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/TobiSchelling/moodmap/internal/config"
)

// mockProvider implements llm.Provider for testing.
type mockProvider struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockProvider) Generate(_ context.Context, prompt string, _ int) (string, error) {
	m.lastPrompt = prompt
	return m.response, m.err
}

func (m *mockProvider) IsConfigured() bool { return true }

func TestLLMExtractorKeepsVerbatimNames(t *testing.T) {
	p := &mockProvider{response: "```json\n[\"Paris\", \"Berlin\", \"Paris\", \"Deutschland\", \" \"]\n```"}
	e := NewLLMExtractor(p)

	text := "Berlin talks Paris and Berlin face tension"
	places, err := e.Places(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Paris", "Berlin"}
	if strings.Join(places, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, places)
	}
	if !strings.Contains(p.lastPrompt, text) {
		t.Error("expected text in prompt")
	}
}

func TestLLMExtractorCaseSensitive(t *testing.T) {
	p := &mockProvider{response: `["paris", "US", "United States"]`}
	places, err := NewLLMExtractor(p).Places(context.Background(), "Paris, the US and the United States")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(places, "|") != "US|United States" {
		t.Errorf("expected exact-text names only, got %v", places)
	}
}

func TestLLMExtractorEmptyText(t *testing.T) {
	p := &mockProvider{err: errors.New("must not be called")}
	places, err := NewLLMExtractor(p).Places(context.Background(), "   ")
	if err != nil || places != nil {
		t.Errorf("expected no places and no error, got %v %v", places, err)
	}
}

func TestLLMExtractorErrors(t *testing.T) {
	if _, err := NewLLMExtractor(&mockProvider{err: errors.New("boom")}).Places(context.Background(), "Paris"); err == nil {
		t.Error("expected provider error to propagate")
	}
	if _, err := NewLLMExtractor(&mockProvider{response: "I think Paris"}).Places(context.Background(), "Paris"); err == nil {
		t.Error("expected unparseable response to fail")
	}
}

func TestProseExtractorReturnsDistinctSpans(t *testing.T) {
	text := "Officials from France met in Berlin on Monday, and Berlin promised more talks with Washington."
	places, err := NewProseExtractor().Places(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]bool{}
	for _, p := range places {
		if seen[p] {
			t.Errorf("duplicate place %q", p)
		}
		seen[p] = true
		if !strings.Contains(text, p) {
			t.Errorf("place %q is not a span of the text", p)
		}
	}
}

func TestProseExtractorEmptyText(t *testing.T) {
	places, err := NewProseExtractor().Places(context.Background(), " ")
	if err != nil || len(places) != 0 {
		t.Errorf("expected no places, got %v %v", places, err)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(config.Extraction{Provider: "prose"}, nil); err != nil {
		t.Errorf("prose: %v", err)
	}
	if _, err := New(config.Extraction{Provider: "llm"}, nil); err == nil {
		t.Error("llm without provider should fail")
	}
	if _, err := New(config.Extraction{Provider: "llm"}, &mockProvider{}); err != nil {
		t.Errorf("llm: %v", err)
	}
	if _, err := New(config.Extraction{Provider: "spacy"}, nil); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestDistinct(t *testing.T) {
	got := distinct([]string{"US", "", "United States", "US"})
	if strings.Join(got, "|") != "US|United States" {
		t.Errorf("unexpected %v", got)
	}
}
