// Package storage persists assessment history in Postgres. The pipeline
// itself is stateless; history exists for the caller-facing listing only.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/risk-signal-service/internal/domain"
)

// Assessment is one stored pipeline run.
type Assessment struct {
	ID             string                `json:"id"`
	CreatedAt      time.Time             `json:"created_at"`
	Location       string                `json:"location,omitempty"`
	RiskScore      int                   `json:"risk_score"`
	RiskLevel      string                `json:"risk_level"`
	HazardCount    int                   `json:"hazard_count"`
	FinancialCount int                   `json:"financial_count"`
	Alerts         []domain.SignalRecord `json:"alerts"`
}

// Repository reads and writes assessment rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository over the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping verifies database connectivity, used by the readiness endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// InsertAssessment stores one completed assessment. Idempotent on ID.
func (r *Repository) InsertAssessment(ctx context.Context, a Assessment) error {
	alerts, err := json.Marshal(a.Alerts)
	if err != nil {
		return fmt.Errorf("marshal alerts: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
        INSERT INTO assessments
            (id, created_at, location, risk_score, risk_level, hazard_count, financial_count, alerts)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
        ON CONFLICT (id) DO NOTHING
    `, a.ID, a.CreatedAt, a.Location, a.RiskScore, a.RiskLevel, a.HazardCount, a.FinancialCount, string(alerts))
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	return nil
}

// ListAssessments returns recent assessments, newest first, optionally
// filtered by location.
func (r *Repository) ListAssessments(ctx context.Context, location string, limit int) ([]Assessment, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, created_at, location, risk_score, risk_level, hazard_count, financial_count, alerts
        FROM assessments
        WHERE ($1 = '' OR location = $1)
        ORDER BY created_at DESC
        LIMIT $2
    `, location, limit)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	results := make([]Assessment, 0, limit)
	for rows.Next() {
		var a Assessment
		var alertsRaw []byte
		if err := rows.Scan(
			&a.ID,
			&a.CreatedAt,
			&a.Location,
			&a.RiskScore,
			&a.RiskLevel,
			&a.HazardCount,
			&a.FinancialCount,
			&alertsRaw,
		); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}

		_ = json.Unmarshal(alertsRaw, &a.Alerts)
		results = append(results, a)
	}

	return results, rows.Err()
}
