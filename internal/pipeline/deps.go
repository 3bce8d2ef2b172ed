package pipeline

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/collect"
	"github.com/TobiSchelling/moodmap/internal/config"
	"github.com/TobiSchelling/moodmap/internal/extract"
	"github.com/TobiSchelling/moodmap/internal/fetch"
	"github.com/TobiSchelling/moodmap/internal/geocode"
	"github.com/TobiSchelling/moodmap/internal/llm"
	"github.com/TobiSchelling/moodmap/internal/sentiment"
)

// BuildDeps constructs the production collaborators described by cfg. An LLM
// provider is only created when the extractor or the scorer needs one. The
// returned close function releases it.
func BuildDeps(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (Deps, func(), error) {
	noop := func() {}

	source, err := collect.NewSource(cfg, log)
	if err != nil {
		return Deps{}, noop, err
	}

	var provider llm.Provider
	if cfg.Extraction.Provider == "llm" || cfg.Sentiment.Provider == "llm" {
		provider, err = llm.CreateProvider(ctx, cfg.LLM, log)
		if err != nil {
			return Deps{}, noop, err
		}
	}
	closeFn := noop
	if c, ok := provider.(io.Closer); ok {
		closeFn = func() { c.Close() }
	}

	extractor, err := extract.New(cfg.Extraction, provider)
	if err != nil {
		closeFn()
		return Deps{}, noop, err
	}
	scorer, err := sentiment.New(cfg.Sentiment, provider)
	if err != nil {
		closeFn()
		return Deps{}, noop, err
	}

	return Deps{
		Source:    source,
		Extractor: extractor,
		Scorer:    scorer,
		Geocoder:  geocode.NewNominatim(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.GeocoderTimeout(), log),
		Limiter:   geocode.NewLimiter(cfg.GeocoderInterval()),
		Filler:    fetch.NewDescriptionFiller(cfg.FetchTimeout(), log),
	}, closeFn, nil
}
