// Package search implements the external web-search collaborator by
// scraping result pages. There is no availability guarantee: callers must
// treat an empty result list as a normal outcome.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	searchURL = "https://www.google.com/search"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultLimit = 10
)

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link,omitempty"`
}

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

func New(logger *zap.Logger) *Client {
	return &Client{
		BaseURL: searchURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Search fetches up to limit results for the query. Rate limiting by the
// provider (HTTP 429) is not an error: it returns an empty result list so
// one throttled branch never aborts the rest of the pipeline.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	c.logger.Debug("make search request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("search provider rate limited", zap.String("query", query))
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	results := make([]Result, 0, limit)
	doc.Find("div.g").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find("h3").First().Text())
		snippet := strings.TrimSpace(sel.Find(".VwiC3b").First().Text())
		link, _ := sel.Find("a").First().Attr("href")

		if title == "" && snippet == "" {
			return true
		}

		results = append(results, Result{Title: title, Snippet: snippet, Link: link})
		return len(results) < limit
	})

	c.logger.Debug("search results parsed",
		zap.String("query", query),
		zap.Int("count", len(results)),
	)

	return results, nil
}

// Dedupe removes results whose titles repeat, case-insensitively,
// keeping the first occurrence.
func Dedupe(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	unique := make([]Result, 0, len(results))

	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.Title))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}

	return unique
}
