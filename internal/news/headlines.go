package news

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"smart-send/internal/api"
	"smart-send/internal/logger"
	"smart-send/internal/role"
)

// Source is a search page whose results are headline items.
type Source struct {
	Name string
	// SearchURL contains {query}, replaced by the escaped search terms.
	SearchURL string
	Item      string
	Title     string
}

// DefaultSources searches Google News for the corridor's currency story.
func DefaultSources() []Source {
	return []Source{
		{
			Name:      "GoogleNews",
			SearchURL: "https://news.google.com/search?q={query}&hl=en-US&gl=US&ceid=US:en",
			Item:      "article",
			Title:     "h3, h4, a.JtKRv",
		},
	}
}

// Headlines collects recent headlines about a corridor. It is an optional capability:
// an empty result is not an error.
type Headlines struct {
	sources []Source
	max     int
	timeout time.Duration
}

var _ role.Capability = (*Headlines)(nil)

// NewHeadlines falls back to DefaultSources, five headlines and a 10s request timeout.
func NewHeadlines(sources []Source, max int, timeout time.Duration) *Headlines {
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	if max <= 0 {
		max = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Headlines{sources: sources, max: max, timeout: timeout}
}

// Name is the section title used in the FX stage's system prompt.
func (h *Headlines) Name() string {
	return "news_headlines"
}

// Description is listed under the role's available tools.
func (h *Headlines) Description() string {
	return "recent news headlines mentioning the corridor's currencies"
}

// Lookup returns up to max headlines as a bulleted list. It fails only when every source fails.
func (h *Headlines) Lookup(ctx context.Context, corridor string) (string, error) {
	query := strings.TrimSpace(corridor) + " exchange rate"

	var (
		titles []string
		errs   []error
	)
	for _, src := range h.sources {
		if len(titles) >= h.max || ctx.Err() != nil {
			break
		}
		got, err := h.collect(ctx, src, query, h.max-len(titles))
		if err != nil {
			logger.Warn(ctx, "Headline source failed", "source", src.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		titles = appendUnique(titles, got...)
	}

	if len(titles) == 0 && len(errs) == len(h.sources) {
		return "", errors.Join(errs...)
	}

	lines := make([]string, len(titles))
	for i, t := range titles {
		lines[i] = "- " + t
	}
	return strings.Join(lines, "\n"), nil
}

func (h *Headlines) collect(ctx context.Context, src Source, query string, limit int) ([]string, error) {
	searchURL := strings.ReplaceAll(src.SearchURL, "{query}", url.QueryEscape(query))
	u, err := url.Parse(searchURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", src.Name, err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(h.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var titles []string
	c.OnHTML("html", func(e *colly.HTMLElement) {
		titles = extractHeadlines(e.DOM, src, limit)
	})

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", src.Name, err)
	}
	c.Wait()
	return titles, nil
}

// extractHeadlines returns up to limit distinct item titles, whitespace-collapsed.
func extractHeadlines(doc *goquery.Selection, src Source, limit int) []string {
	var titles []string
	doc.Find(src.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		title := strings.Join(strings.Fields(item.Find(src.Title).First().Text()), " ")
		if title != "" {
			titles = appendUnique(titles, title)
		}
		return len(titles) < limit
	})
	return titles
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		dup := false
		for _, d := range dst {
			if d == it {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, it)
		}
	}
	return dst
}
