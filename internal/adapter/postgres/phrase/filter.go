package phrase

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/banglatrends/trends-backend/internal/adapter/postgres"
	"github.com/banglatrends/trends-backend/internal/domain"
)

// Filter defines optional criteria for listing phrase records.
// Nil fields are not applied.
type Filter struct {
	// DateFrom / DateTo bound observed_on inclusively.
	DateFrom *time.Time
	DateTo   *time.Time

	// Source restricts to one producer.
	Source *domain.Source

	// Kind restricts to one phrase kind.
	Kind *domain.PhraseKind

	// Category matches the free-text category label exactly.
	Category *string

	// MinFrequency drops records observed fewer times.
	MinFrequency *int

	// Limit caps the result set. Default 100, max 1000.
	Limit int

	// Offset skips leading rows (offset pagination).
	Offset int
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// normalize applies defaults and clamps values.
func (f *Filter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// List returns records matching the filter, ordered by day then descending
// frequency. Returns an empty slice when nothing matches.
func (r *Repo) List(ctx context.Context, f Filter) ([]*domain.PhraseRecord, error) {
	f.normalize()

	builder := sq.Select(
		"id", "observed_on", "phrase", "phrase_kind", "source",
		"score", "frequency", "category", "created_at", "updated_at",
	).
		From("phrase_records").
		PlaceholderFormat(sq.Dollar).
		OrderBy("observed_on", "frequency DESC", "phrase").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.DateFrom != nil {
		builder = builder.Where(sq.GtOrEq{"observed_on": domain.DayOf(*f.DateFrom)})
	}
	if f.DateTo != nil {
		builder = builder.Where(sq.LtOrEq{"observed_on": domain.DayOf(*f.DateTo)})
	}
	if f.Source != nil {
		builder = builder.Where(sq.Eq{"source": *f.Source})
	}
	if f.Kind != nil {
		builder = builder.Where(sq.Eq{"phrase_kind": *f.Kind})
	}
	if f.Category != nil {
		builder = builder.Where(sq.Eq{"category": *f.Category})
	}
	if f.MinFrequency != nil {
		builder = builder.Where(sq.GtOrEq{"frequency": *f.MinFrequency})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list phrase_records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}
