package collect

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/logger"
)

const googleNewsSearchURL = "https://news.google.com/rss/search"

// FeedSource searches the Google News RSS endpoint.
type FeedSource struct {
	BaseURL string

	parser *gofeed.Parser
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewFeedSource creates a new RSS-backed news source.
func NewFeedSource(log *zap.SugaredLogger) *FeedSource {
	return &FeedSource{
		BaseURL: googleNewsSearchURL,
		parser:  gofeed.NewParser(),
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// Search parses the search feed for query and returns entries within daysBack.
func (fs *FeedSource) Search(ctx context.Context, query string, daysBack, pageSize int) ([]Article, error) {
	params := url.Values{
		"q":    {fmt.Sprintf("%s when:%dd", query, daysBack)},
		"hl":   {"en-US"},
		"gl":   {"US"},
		"ceid": {"US:en"},
	}

	feed, err := fs.parser.ParseURLWithContext(fs.BaseURL+"?"+params.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	cutoff := fs.now().AddDate(0, 0, -daysBack)
	limit := clampPageSize(pageSize)

	var articles []Article
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}

		a := parseItem(item)
		if !a.PublishedAt.IsZero() && a.PublishedAt.Before(cutoff) {
			continue
		}
		articles = append(articles, a)
	}

	fs.log.Debugf("Parsed %d entries from %s (within %d days)", len(articles), feed.Title, daysBack)
	return articles, nil
}

func parseItem(item *gofeed.Item) Article {
	a := Article{
		Title:       strings.TrimSpace(item.Title),
		Description: stripHTML(item.Description),
		URL:         item.Link,
	}
	if a.URL == "" {
		a.URL = item.GUID
	}
	if item.PublishedParsed != nil {
		a.PublishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		a.PublishedAt = *item.UpdatedParsed
	}
	if item.Author != nil {
		a.Source = item.Author.Name
	}
	if a.Source == "" {
		a.Source = "Google News"
	}
	return a
}

// stripHTML returns the visible text of an HTML fragment with whitespace
// collapsed.
func stripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
