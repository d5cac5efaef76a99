// Package summary implements the WeeklySummary repository using PostgreSQL.
// Summary rows are a derived cache: a window is always replaced wholesale
// (delete then insert), never patched row by row.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/banglatrends/trends-backend/internal/adapter/postgres"
	"github.com/banglatrends/trends-backend/internal/domain"
)

// Repo provides weekly summary persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new weekly summary repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const summaryColumns = `id, week_start, week_end, phrase, phrase_kind, total_score, average_score, total_frequency, appearance_days, dominant_source, created_at`

// ReplaceWindow deletes any prior summaries for the window and inserts the
// given set. Callers run it inside a transaction so readers never observe the
// window half-replaced.
func (r *Repo) ReplaceWindow(ctx context.Context, weekStart, weekEnd time.Time, summaries []domain.WeeklySummary) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	weekStart, weekEnd = domain.DayOf(weekStart), domain.DayOf(weekEnd)

	if _, err := querier.Exec(ctx,
		`DELETE FROM weekly_summaries WHERE week_start = $1 AND week_end = $2`,
		weekStart, weekEnd,
	); err != nil {
		return fmt.Errorf("clear summary window: %w", err)
	}

	if len(summaries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for _, s := range summaries {
		id := s.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(
			`INSERT INTO weekly_summaries (`+summaryColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			id, weekStart, weekEnd, s.Phrase, s.Kind,
			s.TotalScore, s.AverageScore, s.TotalFrequency, s.AppearanceDays,
			s.DominantSource, now,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for range summaries {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "weekly_summary", weekStart.Format("2006-01-02"))
		}
	}
	return nil
}

const listWindowSQL = `
SELECT ` + summaryColumns + `
FROM weekly_summaries
WHERE week_start = $1 AND week_end = $2
ORDER BY total_frequency DESC, phrase, phrase_kind`

// ListWindow returns the persisted summaries for a window, most frequent
// first. Returns an empty slice for an unknown window.
func (r *Repo) ListWindow(ctx context.Context, weekStart, weekEnd time.Time) ([]domain.WeeklySummary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listWindowSQL, domain.DayOf(weekStart), domain.DayOf(weekEnd))
	if err != nil {
		return nil, fmt.Errorf("list summary window: %w", err)
	}
	defer rows.Close()

	summaries := []domain.WeeklySummary{}
	for rows.Next() {
		var s domain.WeeklySummary
		if err := rows.Scan(
			&s.ID, &s.WeekStart, &s.WeekEnd, &s.Phrase, &s.Kind,
			&s.TotalScore, &s.AverageScore, &s.TotalFrequency, &s.AppearanceDays,
			&s.DominantSource, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan weekly_summary: %w", err)
		}
		s.WeekStart, s.WeekEnd = domain.DayOf(s.WeekStart), domain.DayOf(s.WeekEnd)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read weekly_summaries: %w", err)
	}
	return summaries, nil
}
