package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/config"
)

// ErrNotConfigured is returned when a source is missing its credentials.
var ErrNotConfigured = errors.New("news source not configured")

// MaxPageSize is the largest page a source will return.
const MaxPageSize = 100

// Article is a single news item. Only Title and Description feed the
// aggregation; the other fields are informational.
type Article struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Text returns title and description joined by a single space.
func (a Article) Text() string {
	return a.Title + " " + a.Description
}

// Source returns recent articles for a topic query.
type Source interface {
	Search(ctx context.Context, query string, daysBack, pageSize int) ([]Article, error)
}

// NewSource creates the configured news source.
func NewSource(cfg *config.Config, log *zap.SugaredLogger) (Source, error) {
	switch cfg.News.Source {
	case "newsapi":
		c := NewNewsAPIClient(cfg.News.APIKeyEnv, log)
		c.Language = cfg.News.Language
		c.SortBy = cfg.News.SortBy
		if !c.IsConfigured() {
			return nil, fmt.Errorf("%w: set %s", ErrNotConfigured, cfg.News.APIKeyEnv)
		}
		return c, nil
	case "rss":
		return NewFeedSource(log), nil
	default:
		return nil, fmt.Errorf("unknown news source %q", cfg.News.Source)
	}
}

func clampPageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
