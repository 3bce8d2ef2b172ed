// Package resolve geocodes aggregated places into deduplicated coordinate
// records.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/aggregate"
	"github.com/TobiSchelling/moodmap/internal/geocode"
	"github.com/TobiSchelling/moodmap/internal/logger"
)

// GeoRecord is one line of the output file.
type GeoRecord struct {
	HappinessScore float64 `json:"happiness_score"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// Stats counts what happened to each place.
type Stats struct {
	Resolved   int
	Duplicates int
	NoMatch    int
	Failed     int
}

// Waiter paces geocoder calls.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Resolver geocodes places one at a time, never faster than its Waiter allows.
type Resolver struct {
	geocoder geocode.Geocoder
	limiter  Waiter
	log      *zap.SugaredLogger
}

// New creates a Resolver.
func New(geocoder geocode.Geocoder, limiter Waiter, log *zap.SugaredLogger) *Resolver {
	return &Resolver{geocoder: geocoder, limiter: limiter, log: logger.OrNop(log)}
}

type coordKey struct {
	lat, lon float64
}

// Resolve returns one record per distinct rounded coordinate, in processing
// order. When several places land on the same coordinate the first one wins.
// Places that time out, hit an unavailable service or have no match are
// skipped; any other geocoder error aborts.
func (r *Resolver) Resolve(ctx context.Context, places []aggregate.PlaceSentiment) ([]GeoRecord, Stats, error) {
	var stats Stats
	records := make([]GeoRecord, 0, len(places))
	seen := make(map[coordKey]string, len(places))

	for _, p := range places {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, stats, err
		}

		loc, ok, err := r.geocoder.Geocode(ctx, p.Name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, stats, ctxErr
			}
			if errors.Is(err, geocode.ErrTimeout) || errors.Is(err, geocode.ErrUnavailable) {
				r.log.Warnf("Skipping %q: %v", p.Name, err)
				stats.Failed++
				continue
			}
			return nil, stats, fmt.Errorf("geocoding %q: %w", p.Name, err)
		}
		if !ok {
			r.log.Debugf("No coordinates for %q", p.Name)
			stats.NoMatch++
			continue
		}

		key := coordKey{
			lat: aggregate.Round(loc.Latitude, 6),
			lon: aggregate.Round(loc.Longitude, 6),
		}
		if first, dup := seen[key]; dup {
			r.log.Debugf("Dropping %q: same coordinates as %q", p.Name, first)
			stats.Duplicates++
			continue
		}
		seen[key] = p.Name

		records = append(records, GeoRecord{
			HappinessScore: p.Score,
			Latitude:       key.lat,
			Longitude:      key.lon,
		})
		stats.Resolved++
	}

	return records, stats, nil
}
