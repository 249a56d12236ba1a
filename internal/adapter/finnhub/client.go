// Package finnhub implements the financial-news source adapter against a
// Finnhub-style company-news and quote API.
package finnhub

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/risk-signal-service/internal/domain"
	"github.com/couchcryptid/risk-signal-service/internal/httpx"
)

const (
	// maxSymbols bounds per-fetch symbol queries to respect API quotas.
	maxSymbols = 5
	// articlesPerSymbol bounds how many articles each symbol contributes.
	articlesPerSymbol = 3
	// newsLookbackDays is the company-news search window.
	newsLookbackDays = 7
	// symbolConcurrency caps concurrent upstream calls within one fetch.
	symbolConcurrency = 3

	// Market movement thresholds: absolute percent change above
	// movementThresholdPct synthesizes a record; above
	// highMovementThresholdPct it is High severity, else Medium.
	movementThresholdPct     = 2.0
	highMovementThresholdPct = 5.0
)

// Client fetches company news for a watch-list of symbols and synthesizes
// market-movement records from index quotes. Implements pipeline.Source.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	symbols    []string
	indices    []string
	logger     *slog.Logger
}

// NewClient creates a financial-news adapter. An empty apiKey is allowed;
// the adapter then degrades to empty results with a configuration warning.
func NewClient(apiKey string, symbols, indices []string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://finnhub.io/api/v1",
		symbols: symbols,
		indices: indices,
		logger:  logger,
	}
}

// Kind reports the signal kind this adapter produces.
func (c *Client) Kind() domain.Kind {
	return domain.KindFinancialNews
}

// Fetch queries company news for each watched symbol concurrently, then
// index quotes for market movements. Financial news is not location-scoped,
// so the location argument is ignored. Per-symbol failures are logged and
// skipped; they never abort the batch.
func (c *Client) Fetch(ctx context.Context, _ string) ([]domain.SignalRecord, error) {
	if c.apiKey == "" {
		c.logger.Warn("FINANCE_API_KEY is missing, skipping financial news fetch")
		return nil, nil
	}

	symbols := c.symbols
	if len(symbols) > maxSymbols {
		symbols = symbols[:maxSymbols]
	}

	// One slot per symbol keeps merge order deterministic regardless of
	// which request finishes first.
	perSymbol := make([][]domain.SignalRecord, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(symbolConcurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			recs, err := c.fetchCompanyNews(gctx, symbol)
			if err != nil {
				c.logger.Warn("company news fetch failed", "symbol", symbol, "error", err)
				return nil
			}
			perSymbol[i] = recs
			return nil
		})
	}
	_ = g.Wait()

	var records []domain.SignalRecord
	for _, recs := range perSymbol {
		records = append(records, recs...)
	}

	records = append(records, c.fetchMarketMovements(ctx)...)
	return records, nil
}

func (c *Client) fetchCompanyNews(ctx context.Context, symbol string) ([]domain.SignalRecord, error) {
	now := domain.Now()
	params := url.Values{
		"symbol": {symbol},
		"token":  {c.apiKey},
		"from":   {now.AddDate(0, 0, -newsLookbackDays).Format("2006-01-02")},
		"to":     {now.Format("2006-01-02")},
	}

	var articles []newsArticle
	if err := httpx.GetJSON(ctx, c.httpClient, c.baseURL+"/company-news?"+params.Encode(), &articles); err != nil {
		return nil, fmt.Errorf("company news %s: %w", symbol, err)
	}

	if len(articles) > articlesPerSymbol {
		articles = articles[:articlesPerSymbol]
	}

	records := make([]domain.SignalRecord, 0, len(articles))
	for _, a := range articles {
		if a.Headline == "" {
			c.logger.Warn("skipping article without headline", "symbol", symbol)
			continue
		}
		records = append(records, domain.SignalRecord{
			Kind:        domain.KindFinancialNews,
			Title:       a.Headline,
			Detail:      domain.TruncateDetail(a.Summary),
			SourceName:  "FINNHUB",
			PublishedAt: unixTime(a.Datetime),
			URL:         a.URL,
		})
	}
	return records, nil
}

// fetchMarketMovements polls index quotes and synthesizes a record for any
// index whose absolute percent change exceeds movementThresholdPct. The
// records carry adapter-assigned severity because their relevance comes
// from price data rather than keyword matching.
func (c *Client) fetchMarketMovements(ctx context.Context) []domain.SignalRecord {
	var records []domain.SignalRecord
	for _, index := range c.indices {
		if ctx.Err() != nil {
			break
		}

		params := url.Values{
			"symbol": {index},
			"token":  {c.apiKey},
		}

		var q quote
		if err := httpx.GetJSON(ctx, c.httpClient, c.baseURL+"/quote?"+params.Encode(), &q); err != nil {
			c.logger.Warn("quote fetch failed", "symbol", index, "error", err)
			continue
		}

		if math.Abs(q.PercentChange) <= movementThresholdPct {
			continue
		}

		direction := "surged"
		if q.PercentChange < 0 {
			direction = "dropped"
		}
		severity := domain.SeverityMedium
		if math.Abs(q.PercentChange) > highMovementThresholdPct {
			severity = domain.SeverityHigh
		}

		now := domain.Now()
		records = append(records, domain.SignalRecord{
			Kind:  domain.KindFinancialNews,
			Title: fmt.Sprintf("%s %s %.1f%%", index, direction, math.Abs(q.PercentChange)),
			Detail: fmt.Sprintf("Current: $%.2f, Change: %+.2f (%+.1f%%)",
				q.Current, q.Change, q.PercentChange),
			SourceName:  "FINNHUB",
			PublishedAt: &now,
			Severity:    severity,
		})
	}
	return records
}

func unixTime(ts int64) *time.Time {
	if ts <= 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}

// Finnhub response types.

type newsArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"` // unix seconds
	Category string `json:"category"`
}

type quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
}
