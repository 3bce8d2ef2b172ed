package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/collect"
	"github.com/TobiSchelling/moodmap/internal/logger"
)

const maxBodyBytes = 2 << 20

// Result holds the results of a description fill run.
type Result struct {
	Filled  int
	Skipped int
	Failed  int
}

// DescriptionFiller fills empty article descriptions with the readability
// excerpt of the article page.
type DescriptionFiller struct {
	client *http.Client
	log    *zap.SugaredLogger
}

// NewDescriptionFiller creates a new filler.
func NewDescriptionFiller(timeout time.Duration, log *zap.SugaredLogger) *DescriptionFiller {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &DescriptionFiller{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		log: logger.OrNop(log),
	}
}

// FillMissing updates articles in place. Fetch failures leave the article
// untouched; only context cancellation is returned as an error.
func (f *DescriptionFiller) FillMissing(ctx context.Context, articles []collect.Article) (*Result, error) {
	r := &Result{}
	failedDomains := make(map[string]struct{})

	for i := range articles {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		a := &articles[i]
		if strings.TrimSpace(a.Description) != "" || a.URL == "" {
			r.Skipped++
			continue
		}

		u, err := url.Parse(a.URL)
		if err != nil {
			r.Failed++
			continue
		}
		domain := strings.ToLower(u.Host)
		if _, failed := failedDomains[domain]; failed {
			r.Failed++
			continue
		}

		excerpt, err := f.fetchExcerpt(ctx, u)
		if err != nil {
			r.Failed++
			failedDomains[domain] = struct{}{}
			f.log.Debugf("No description for %s: %v (skipping remaining from %s)", a.URL, err, domain)
			continue
		}
		if excerpt == "" {
			r.Failed++
			continue
		}

		a.Description = excerpt
		r.Filled++
	}

	f.log.Debugf("Description fill complete: %d filled, %d failed", r.Filled, r.Failed)
	return r, nil
}

func (f *DescriptionFiller) fetchExcerpt(ctx context.Context, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "moodmap/1.0 (news sentiment mapper)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxBodyBytes), u)
	if err != nil {
		return "", err
	}

	return strings.Join(strings.Fields(article.Excerpt), " "), nil
}
