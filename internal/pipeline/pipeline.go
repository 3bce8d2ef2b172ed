package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/aggregate"
	"github.com/TobiSchelling/moodmap/internal/collect"
	"github.com/TobiSchelling/moodmap/internal/config"
	"github.com/TobiSchelling/moodmap/internal/extract"
	"github.com/TobiSchelling/moodmap/internal/fetch"
	"github.com/TobiSchelling/moodmap/internal/geocode"
	"github.com/TobiSchelling/moodmap/internal/logger"
	"github.com/TobiSchelling/moodmap/internal/output"
	"github.com/TobiSchelling/moodmap/internal/resolve"
	"github.com/TobiSchelling/moodmap/internal/sentiment"
)

// ErrEmptyQuery is returned for a blank topic. Nothing is fetched or written.
var ErrEmptyQuery = errors.New("empty query")

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	RunID      string
	Query      string
	Articles   int
	Places     []aggregate.PlaceSentiment
	Records    []resolve.GeoRecord
	Stats      resolve.Stats
	OutputPath string
	Steps      []StepResult
}

// Filler fills in missing article descriptions.
type Filler interface {
	FillMissing(ctx context.Context, articles []collect.Article) (*fetch.Result, error)
}

// Deps are the collaborators of a pipeline. Limiter and Filler are optional;
// Limiter defaults to the configured geocoder interval and Filler is only
// used when description filling is enabled.
type Deps struct {
	Source    collect.Source
	Extractor extract.Extractor
	Scorer    sentiment.Scorer
	Geocoder  geocode.Geocoder
	Limiter   resolve.Waiter
	Filler    Filler
}

// Pipeline runs topic -> articles -> place sentiment -> coordinates -> file.
type Pipeline struct {
	cfg        *config.Config
	source     collect.Source
	filler     Filler
	aggregator *aggregate.Aggregator
	resolver   *resolve.Resolver
	log        *zap.SugaredLogger
}

// New creates a new pipeline.
func New(cfg *config.Config, deps Deps, log *zap.SugaredLogger) (*Pipeline, error) {
	log = logger.OrNop(log)

	keyFunc, err := aggregate.KeyFuncFor(cfg.Extraction.KeyMode)
	if err != nil {
		return nil, err
	}

	limiter := deps.Limiter
	if limiter == nil {
		limiter = geocode.NewLimiter(cfg.GeocoderInterval())
	}

	var filler Filler
	if cfg.Fetch.FillMissingDescriptions {
		filler = deps.Filler
	}

	return &Pipeline{
		cfg:    cfg,
		source: deps.Source,
		filler: filler,
		aggregator: aggregate.New(deps.Extractor, deps.Scorer, aggregate.Options{
			KeyFunc: keyFunc,
			Workers: cfg.Aggregation.Workers,
		}, log),
		resolver: resolve.New(deps.Geocoder, limiter, log),
		log:      log,
	}, nil
}

// Run executes the pipeline and writes the records to the configured output
// path. On error the returned Result still lists the steps that ran, and the
// output file is left untouched.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	return p.run(ctx, query, true)
}

// RunWithoutWrite executes the pipeline without writing the output file.
func (p *Pipeline) RunWithoutWrite(ctx context.Context, query string) (*Result, error) {
	return p.run(ctx, query, false)
}

func (p *Pipeline) run(ctx context.Context, query string, write bool) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	r := &Result{RunID: uuid.NewString(), Query: query}
	log := p.log.With("run", r.RunID)

	// Step 1: Collect
	log.Infof("Fetching news articles for: %q...", query)
	articles, err := p.source.Search(ctx, query, p.cfg.News.Days, p.cfg.News.PageSize)
	if err != nil {
		return r, p.fail(r, "Collect", fmt.Errorf("collecting articles: %w", err))
	}
	r.Articles = len(articles)
	p.step(r, "Collect", fmt.Sprintf("Articles found: %d", len(articles)))

	// Step 2: Fetch (optional)
	if p.filler != nil {
		log.Info("Filling missing descriptions...")
		fr, err := p.filler.FillMissing(ctx, articles)
		if err != nil {
			return r, p.fail(r, "Fetch", fmt.Errorf("filling descriptions: %w", err))
		}
		p.step(r, "Fetch", fmt.Sprintf("Filled %d descriptions, %d failed, %d skipped", fr.Filled, fr.Failed, fr.Skipped))
	}

	// Step 3: Aggregate
	log.Info("Extracting locations and scoring sentiment...")
	places, err := p.aggregator.Aggregate(ctx, articles)
	if err != nil {
		return r, p.fail(r, "Aggregate", fmt.Errorf("aggregating sentiment: %w", err))
	}
	r.Places = places
	p.step(r, "Aggregate", fmt.Sprintf("Unique locations mentioned: %d", len(places)))

	// Step 4: Resolve
	log.Info("Converting locations to coordinates...")
	records, stats, err := p.resolver.Resolve(ctx, places)
	if err != nil {
		return r, p.fail(r, "Resolve", fmt.Errorf("resolving coordinates: %w", err))
	}
	r.Records = records
	r.Stats = stats
	p.step(r, "Resolve", fmt.Sprintf("Resolved %d coordinates (%d duplicates, %d unmatched, %d failed)",
		stats.Resolved, stats.Duplicates, stats.NoMatch, stats.Failed))

	if !write {
		return r, nil
	}

	// Step 5: Write
	path := p.cfg.Output.Path
	if err := output.Write(path, records); err != nil {
		return r, p.fail(r, "Write", err)
	}
	r.OutputPath = path
	p.step(r, "Write", fmt.Sprintf("Final dataset saved to '%s' (%d locations)", path, len(records)))

	return r, nil
}

func (p *Pipeline) step(r *Result, name, summary string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Summary: summary})
	p.log.Infow(summary, "run", r.RunID, "step", name)
}

func (p *Pipeline) fail(r *Result, name string, err error) error {
	r.Steps = append(r.Steps, StepResult{Name: name, Err: err})
	return err
}
