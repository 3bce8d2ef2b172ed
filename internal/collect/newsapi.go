package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/logger"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIClient fetches articles from NewsAPI.
type NewsAPIClient struct {
	BaseURL  string
	Language string
	SortBy   string

	apiKey string
	client *http.Client
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewNewsAPIClient creates a new NewsAPI client reading its key from apiKeyEnv.
func NewNewsAPIClient(apiKeyEnv string, log *zap.SugaredLogger) *NewsAPIClient {
	return &NewsAPIClient{
		BaseURL:  newsAPIBaseURL,
		Language: "en",
		SortBy:   "publishedAt",
		apiKey:   os.Getenv(apiKeyEnv),
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// IsConfigured returns whether the API key is available.
func (c *NewsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// Search returns up to pageSize articles matching query, published within
// the last daysBack days.
func (c *NewsAPIClient) Search(ctx context.Context, query string, daysBack, pageSize int) ([]Article, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	now := c.now()
	params := url.Values{
		"q":        {query},
		"from":     {now.AddDate(0, 0, -daysBack).Format("2006-01-02")},
		"to":       {now.Format("2006-01-02")},
		"language": {c.Language},
		"pageSize": {strconv.Itoa(clampPageSize(pageSize))},
		"sortBy":   {c.SortBy},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("newsapi returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Status   string `json:"status"`
		Code     string `json:"code"`
		Message  string `json:"message"`
		Articles []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}

	if result.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s %s", result.Status, result.Code, result.Message)
	}

	articles := make([]Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}

		var published time.Time
		if a.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
				published = t
			}
		}

		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: published,
		})
	}

	c.log.Debugf("Fetched %d articles from NewsAPI for query: %s", len(articles), query)
	return articles, nil
}
