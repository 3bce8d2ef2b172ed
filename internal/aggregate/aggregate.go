// Package aggregate turns a sequence of articles into a per-place mean
// sentiment.
package aggregate

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/moodmap/internal/collect"
	"github.com/TobiSchelling/moodmap/internal/extract"
	"github.com/TobiSchelling/moodmap/internal/logger"
	"github.com/TobiSchelling/moodmap/internal/sentiment"
)

// PlaceSentiment is the mean sentiment of one place.
type PlaceSentiment struct {
	Key PlaceKey
	// Name is the first spelling seen for Key.
	Name string
	// Score is the mean of all samples, rounded to 4 decimal places.
	Score float64
	// Mentions is the number of articles that contributed a sample.
	Mentions int
}

// Options configures an Aggregator.
type Options struct {
	// KeyFunc defaults to ExactKey.
	KeyFunc KeyFunc
	// Workers > 1 analyzes articles concurrently.
	Workers int
}

// Aggregator extracts places from each article, scores the article once and
// attributes that score to every place it mentions.
type Aggregator struct {
	extractor extract.Extractor
	scorer    sentiment.Scorer
	keyFunc   KeyFunc
	workers   int
	log       *zap.SugaredLogger
}

// New creates an Aggregator.
func New(extractor extract.Extractor, scorer sentiment.Scorer, opts Options, log *zap.SugaredLogger) *Aggregator {
	if opts.KeyFunc == nil {
		opts.KeyFunc = ExactKey
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Aggregator{
		extractor: extractor,
		scorer:    scorer,
		keyFunc:   opts.KeyFunc,
		workers:   opts.Workers,
		log:       logger.OrNop(log),
	}
}

// sample is the analysis of one article. places is nil when the article
// mentions no place, in which case it was not scored.
type sample struct {
	places []string
	score  float64
}

// Aggregate returns one entry per distinct place key, ordered by the key's
// first appearance across articles. Places are extracted from the title and
// description together, but only the description is scored.
func (a *Aggregator) Aggregate(ctx context.Context, articles []collect.Article) ([]PlaceSentiment, error) {
	samples := make([]sample, len(articles))

	if a.workers == 1 {
		for i, art := range articles {
			s, err := a.analyze(ctx, i, art)
			if err != nil {
				return nil, err
			}
			samples[i] = s
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.workers)
		for i, art := range articles {
			g.Go(func() error {
				s, err := a.analyze(gctx, i, art)
				if err != nil {
					return err
				}
				samples[i] = s
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return a.fold(samples), nil
}

func (a *Aggregator) analyze(ctx context.Context, i int, art collect.Article) (sample, error) {
	if err := ctx.Err(); err != nil {
		return sample{}, err
	}

	places, err := a.extractor.Places(ctx, art.Text())
	if err != nil {
		return sample{}, fmt.Errorf("extracting places from article %d: %w", i, err)
	}
	if len(places) == 0 {
		a.log.Debugf("No places in %q", art.Title)
		return sample{}, nil
	}

	score, err := a.scorer.Score(ctx, art.Description)
	if err != nil {
		return sample{}, fmt.Errorf("scoring article %d: %w", i, err)
	}
	a.log.Debugf("Article %d: %v scored %.4f", i, places, score)
	return sample{places: places, score: score}, nil
}

type tally struct {
	name  string
	sum   float64
	count int
}

func (a *Aggregator) fold(samples []sample) []PlaceSentiment {
	var order []PlaceKey
	tallies := make(map[PlaceKey]*tally)

	for _, s := range samples {
		counted := make(map[PlaceKey]bool, len(s.places))
		for _, name := range s.places {
			key := a.keyFunc(name)
			if counted[key] {
				continue
			}
			counted[key] = true

			t, ok := tallies[key]
			if !ok {
				t = &tally{name: name}
				tallies[key] = t
				order = append(order, key)
			}
			t.sum += s.score
			t.count++
		}
	}

	out := make([]PlaceSentiment, 0, len(order))
	for _, key := range order {
		t := tallies[key]
		out = append(out, PlaceSentiment{
			Key:      key,
			Name:     t.name,
			Score:    Round(t.sum/float64(t.count), 4),
			Mentions: t.count,
		})
	}
	return out
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
