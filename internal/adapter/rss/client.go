// Package rss implements the emergency-feed source adapter over a set of
// syndication (RSS/Atom) feeds.
package rss

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/couchcryptid/risk-signal-service/internal/domain"
)

const (
	// maxFeeds bounds how many configured feeds are consulted per fetch.
	maxFeeds = 3
	// entriesPerFeed bounds how many entries each feed contributes.
	entriesPerFeed = 5
)

// Client fetches emergency bulletins from syndication feeds. Implements
// pipeline.Source. Feeds are public, so there is no credential to check.
type Client struct {
	parser *gofeed.Parser
	urls   []string
	logger *slog.Logger
}

// NewClient creates an emergency-feed adapter over the given feed URLs.
func NewClient(urls []string, timeout time.Duration, logger *slog.Logger) *Client {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Client{
		parser: parser,
		urls:   urls,
		logger: logger,
	}
}

// Kind reports the signal kind this adapter produces.
func (c *Client) Kind() domain.Kind {
	return domain.KindEmergencyFeed
}

// Fetch parses up to maxFeeds feeds and normalizes their entries. A feed
// that fails to parse is logged and skipped; it never aborts the batch, so
// the worst case is an empty result.
func (c *Client) Fetch(ctx context.Context, location string) ([]domain.SignalRecord, error) {
	if location == "" {
		return nil, nil
	}

	var records []domain.SignalRecord
	parsed := 0
	for _, feedURL := range c.urls {
		if parsed >= maxFeeds {
			break
		}
		if ctx.Err() != nil {
			break
		}

		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			c.logger.Warn("emergency feed parse failed", "url", feedURL, "error", err)
			continue
		}
		parsed++

		sourceName := strings.TrimSpace(feed.Title)
		if sourceName == "" {
			sourceName = "Emergency Feed"
		}

		for i, item := range feed.Items {
			if i >= entriesPerFeed {
				break
			}
			if strings.TrimSpace(item.Title) == "" {
				c.logger.Warn("skipping feed entry without title", "url", feedURL)
				continue
			}
			records = append(records, domain.SignalRecord{
				Kind:        domain.KindEmergencyFeed,
				Title:       item.Title,
				Detail:      domain.TruncateDetail(item.Description),
				SourceName:  sourceName,
				PublishedAt: item.PublishedParsed,
				URL:         item.Link,
			})
		}
	}
	return records, nil
}
