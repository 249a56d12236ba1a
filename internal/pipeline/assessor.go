// Package pipeline orchestrates the signal aggregation flow: concurrent
// source fetches, relevance filtering, cross-source deduplication, ranking,
// and composite scoring.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/risk-signal-service/internal/domain"
	"github.com/couchcryptid/risk-signal-service/internal/observability"
)

// Source is one upstream signal feed. Fetch returns normalized records or
// an error describing why the source degraded; the pipeline maps any error
// to an empty contribution, so a failing source never fails an assessment.
type Source interface {
	Kind() domain.Kind
	Fetch(ctx context.Context, location string) ([]domain.SignalRecord, error)
}

// Assessor runs the stateless per-request pipeline. Sources are fetched
// concurrently and merged in construction order, so callers should pass
// them hazard-news, emergency-feed, financial-news.
type Assessor struct {
	sources   []Source
	vocab     *domain.Vocabulary
	logger    *slog.Logger
	metrics   *observability.Metrics
	deadline  time.Duration
	rankLimit int
}

// New creates an Assessor over the given sources.
func New(sources []Source, vocab *domain.Vocabulary, logger *slog.Logger, metrics *observability.Metrics, deadline time.Duration, rankLimit int) *Assessor {
	return &Assessor{
		sources:   sources,
		vocab:     vocab,
		logger:    logger,
		metrics:   metrics,
		deadline:  deadline,
		rankLimit: rankLimit,
	}
}

// Result is the caller-facing assessment summary.
type Result struct {
	Location            string                `json:"location_found,omitempty"`
	RiskScore           int                   `json:"risk_score"`
	RiskLevel           string                `json:"risk_level"`
	HazardAlerts        []domain.SignalRecord `json:"hazard_alerts"`
	FinancialAlerts     []domain.SignalRecord `json:"financial_alerts"`
	AlertCount          int                   `json:"alert_count"`
	FinancialAlertCount int                   `json:"financial_alert_count"`
	TotalAlertCount     int                   `json:"total_alert_count"`
	Score               domain.CompositeScore `json:"score"`
}

// Assess runs one assessment: fetch all sources concurrently, filter for
// relevance, dedupe, rank, and score. The location may be empty, in which
// case location-scoped sources are skipped and the result reflects global
// financial signals only. Never returns an error: the worst case is a
// zero-signal Low-tier result.
func (a *Assessor) Assess(ctx context.Context, location string) Result {
	start := time.Now()
	a.metrics.AssessmentsTotal.Inc()

	ctx, cancel := context.WithTimeout(ctx, a.deadline)
	defer cancel()

	merged := a.fetchAll(ctx, location)

	filtered := domain.Filter(merged, location, a.vocab)
	a.metrics.RecordsDiscarded.WithLabelValues("filter").Add(float64(len(merged) - len(filtered)))

	deduped := domain.Dedupe(filtered)
	a.metrics.RecordsDiscarded.WithLabelValues("dedupe").Add(float64(len(filtered) - len(deduped)))

	ranked := domain.Rank(deduped, a.rankLimit)

	var hazard, financial []domain.SignalRecord
	for _, rec := range ranked {
		if rec.Kind == domain.KindFinancialNews {
			financial = append(financial, rec)
		} else {
			hazard = append(hazard, rec)
		}
	}

	score := domain.Score(len(hazard), len(financial))
	a.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())

	a.logger.Info("assessment complete",
		"location", location,
		"fetched", len(merged),
		"ranked", len(ranked),
		"total", score.Total,
		"tier", score.Tier,
	)

	return Result{
		Location:            location,
		RiskScore:           score.Total,
		RiskLevel:           string(score.Tier),
		HazardAlerts:        hazard,
		FinancialAlerts:     financial,
		AlertCount:          len(hazard),
		FinancialAlertCount: len(financial),
		TotalAlertCount:     len(hazard) + len(financial),
		Score:               score,
	}
}

// fetchAll invokes every source concurrently and merges their output in
// source order once all have completed or timed out. Each goroutine owns
// its slot in results, so no locking is needed.
func (a *Assessor) fetchAll(ctx context.Context, location string) []domain.SignalRecord {
	results := make([][]domain.SignalRecord, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		if src.Kind().LocationScoped() && location == "" {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			fetchStart := time.Now()
			records, err := src.Fetch(ctx, location)
			a.metrics.SourceFetchSeconds.WithLabelValues(string(src.Kind())).Observe(time.Since(fetchStart).Seconds())

			if err != nil {
				a.logger.Warn("source degraded to empty result",
					"source", src.Kind(), "error", err)
				a.metrics.SourceFetches.WithLabelValues(string(src.Kind()), "degraded").Inc()
				return
			}
			a.metrics.SourceFetches.WithLabelValues(string(src.Kind()), "success").Inc()
			a.metrics.SourceRecords.WithLabelValues(string(src.Kind())).Add(float64(len(records)))
			results[i] = records
		}()
	}
	wg.Wait()

	var merged []domain.SignalRecord
	for _, records := range results {
		merged = append(merged, records...)
	}
	return merged
}
