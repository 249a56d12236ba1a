// Package newsapi implements the hazard-news source adapter against a
// NewsAPI-style article search endpoint.
package newsapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/risk-signal-service/internal/domain"
	"github.com/couchcryptid/risk-signal-service/internal/httpx"
)

const (
	// lookbackDays bounds the search window; older hazard news is stale.
	lookbackDays = 3
	// pageSize over-fetches so the relevance filter has enough to work with.
	pageSize = 15
	// queryTermCount caps the keywords in the search query; upstream
	// rejects overlong queries.
	queryTermCount = 8
)

// Client fetches hazard news for a location. Implements pipeline.Source.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a hazard-news adapter. An empty apiKey is allowed; the
// adapter then degrades to empty results with a configuration warning.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://newsapi.org/v2/everything",
		logger:  logger,
	}
}

// Kind reports the signal kind this adapter produces.
func (c *Client) Kind() domain.Kind {
	return domain.KindHazardNews
}

// Fetch queries the search endpoint for hazard keywords near the location
// and returns normalized records. A missing credential or an unrecoverable
// upstream failure degrades to an empty result.
func (c *Client) Fetch(ctx context.Context, location string) ([]domain.SignalRecord, error) {
	if c.apiKey == "" {
		c.logger.Warn("NEWS_API_KEY is missing, skipping hazard news fetch")
		return nil, nil
	}
	if location == "" {
		return nil, nil
	}

	params := url.Values{
		"q":        {buildQuery(location)},
		"apiKey":   {c.apiKey},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"from":     {domain.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")},
		"pageSize": {fmt.Sprint(pageSize)},
	}

	var resp response
	if err := httpx.GetJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("hazard news fetch: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("hazard news fetch: upstream status %q: %s", resp.Status, resp.Message)
	}

	records := make([]domain.SignalRecord, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if strings.TrimSpace(a.Title) == "" {
			c.logger.Warn("skipping article without title", "url", a.URL)
			continue
		}
		records = append(records, domain.SignalRecord{
			Kind:        domain.KindHazardNews,
			Title:       a.Title,
			Detail:      domain.TruncateDetail(a.Description),
			SourceName:  a.Source.Name,
			PublishedAt: parsePublished(a.PublishedAt),
			URL:         a.URL,
		})
	}
	return records, nil
}

// buildQuery combines the quoted location with the leading hazard terms:
// `"Sydney" AND ("emergency" OR "disaster" OR ...)`.
func buildQuery(location string) string {
	terms := domain.HazardQueryTerms(queryTermCount)
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"`
	}
	return fmt.Sprintf(`"%s" AND (%s)`, location, strings.Join(quoted, " OR "))
}

// parsePublished maps an absent or malformed timestamp to nil, never to a
// placeholder.
func parsePublished(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// NewsAPI response types.

type response struct {
	Status   string    `json:"status"`
	Message  string    `json:"message,omitempty"`
	Articles []article `json:"articles"`
}

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}
