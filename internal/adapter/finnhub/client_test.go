package finnhub

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/risk-signal-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, mux *http.ServeMux, symbols, indices []string) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", symbols, indices, 5*time.Second, discardLogger())
	c.baseURL = srv.URL
	c.httpClient = srv.Client()
	return c
}

func quietQuotes(mux *http.ServeMux) {
	mux.HandleFunc("/quote", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"c": 450.0, "d": 0.5, "dp": 0.1}`))
	})
}

func TestFetch_CompanyNews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/company-news", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		symbol := r.URL.Query().Get("symbol")
		fmt.Fprintf(w, `[
			{"headline": "%s earnings miss expectations", "summary": "Quarterly results below guidance.", "url": "https://fin.example/%s", "datetime": 1773655200},
			{"headline": "", "summary": "no headline"},
			{"headline": "%s announces new product line", "datetime": 1773651600},
			{"headline": "%s expands into new markets", "datetime": 1773648000},
			{"headline": "%s beyond the per-symbol cap", "datetime": 1773644400}
		]`, symbol, symbol, symbol, symbol, symbol)
	})
	quietQuotes(mux)

	c := newTestClient(t, mux, []string{"AAPL", "MSFT"}, []string{"SPY"})
	records, err := c.Fetch(context.Background(), "")

	require.NoError(t, err)
	// Per symbol: the list is capped at three articles first, then the
	// headline-less one is skipped, leaving two.
	require.Len(t, records, 4)

	// Merge order follows the symbol list regardless of request completion.
	assert.Equal(t, "AAPL earnings miss expectations", records[0].Title)
	assert.Equal(t, "AAPL announces new product line", records[1].Title)
	assert.Equal(t, "MSFT earnings miss expectations", records[2].Title)

	rec := records[0]
	assert.Equal(t, domain.KindFinancialNews, rec.Kind)
	assert.Equal(t, "Quarterly results below guidance.", rec.Detail)
	assert.Equal(t, "FINNHUB", rec.SourceName)
	require.NotNil(t, rec.PublishedAt)
	assert.Equal(t, int64(1773655200), rec.PublishedAt.Unix())
	assert.Empty(t, rec.Severity, "severity comes from the relevance filter")
}

func TestFetch_MarketMovements(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	mux := http.NewServeMux()
	mux.HandleFunc("/company-news", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "SPY":
			w.Write([]byte(`{"c": 420.50, "d": -28.10, "dp": -6.3}`))
		case "QQQ":
			w.Write([]byte(`{"c": 380.00, "d": 9.50, "dp": 2.6}`))
		default:
			w.Write([]byte(`{"c": 100.00, "d": 1.00, "dp": 1.0}`))
		}
	})

	c := newTestClient(t, mux, []string{"AAPL"}, []string{"SPY", "QQQ", "DIA"})
	records, err := c.Fetch(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, records, 2, "quiet index below threshold is ignored")

	drop := records[0]
	assert.Equal(t, "SPY dropped 6.3%", drop.Title)
	assert.Equal(t, "Current: $420.50, Change: -28.10 (-6.3%)", drop.Detail)
	assert.Equal(t, domain.SeverityHigh, drop.Severity)
	require.NotNil(t, drop.PublishedAt)
	assert.Equal(t, fake.Now(), *drop.PublishedAt)

	surge := records[1]
	assert.Equal(t, "QQQ surged 2.6%", surge.Title)
	assert.Equal(t, domain.SeverityMedium, surge.Severity)
}

func TestFetch_MissingKeyDegradesQuietly(t *testing.T) {
	c := NewClient("", []string{"AAPL"}, []string{"SPY"}, 5*time.Second, discardLogger())

	records, err := c.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetch_SymbolFailureSkipped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/company-news", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "AAPL" {
			http.Error(w, "not entitled", http.StatusForbidden)
			return
		}
		w.Write([]byte(`[{"headline": "MSFT revenue beats estimates", "datetime": 1773655200}]`))
	})
	quietQuotes(mux)

	c := newTestClient(t, mux, []string{"AAPL", "MSFT"}, nil)
	records, err := c.Fetch(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "MSFT revenue beats estimates", records[0].Title)
}

func TestFetch_SymbolListCapped(t *testing.T) {
	var mu sync.Mutex
	var symbols []string
	mux := http.NewServeMux()
	mux.HandleFunc("/company-news", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		symbols = append(symbols, r.URL.Query().Get("symbol"))
		mu.Unlock()
		w.Write([]byte(`[]`))
	})

	watch := []string{"A", "B", "C", "D", "E", "F", "G"}
	c := newTestClient(t, mux, watch, nil)
	_, err := c.Fetch(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, symbols, maxSymbols)
}
