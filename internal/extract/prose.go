package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

const labelGPE = "GPE"

// ProseExtractor runs prose's offline named-entity model and keeps GPE spans.
type ProseExtractor struct{}

// NewProseExtractor creates a new prose-backed extractor.
func NewProseExtractor() *ProseExtractor {
	return &ProseExtractor{}
}

// Places returns the GPE entities in text.
func (p *ProseExtractor) Places(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose NER: %w", err)
	}

	var names []string
	for _, ent := range doc.Entities() {
		if ent.Label == labelGPE {
			names = append(names, ent.Text)
		}
	}
	return distinct(names), nil
}
