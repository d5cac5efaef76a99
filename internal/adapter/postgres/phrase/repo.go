// Package phrase implements the PhraseRecord repository using PostgreSQL.
// The write path is a single-statement upsert that folds the merge policy
// (frequency sum, score max) into the INSERT, so two concurrent merges on the
// same key can never both observe "no existing record".
package phrase

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

// Repo provides phrase record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new phrase record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const recordColumns = `id, observed_on, phrase, phrase_kind, source, score, frequency, category, created_at, updated_at`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const upsertSQL = `
INSERT INTO phrase_records (id, observed_on, phrase, phrase_kind, source, score, frequency, category, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
ON CONFLICT (observed_on, phrase, phrase_kind, source) DO UPDATE
SET frequency  = phrase_records.frequency + EXCLUDED.frequency,
    score      = GREATEST(phrase_records.score, EXCLUDED.score),
    updated_at = EXCLUDED.updated_at
RETURNING ` + recordColumns

// Upsert applies a candidate record with merge-on-conflict semantics and
// returns the post-merge state. Frequency is accumulated, score keeps the
// maximum, category is left untouched on merge.
func (r *Repo) Upsert(ctx context.Context, rec *domain.PhraseRecord) (*domain.PhraseRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	row := querier.QueryRow(ctx, upsertSQL,
		uuid.New(), domain.DayOf(rec.ObservedOn), rec.Phrase, rec.Kind, rec.Source,
		rec.Score, rec.Frequency, rec.Category, now,
	)

	merged, err := scanRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "phrase_record", rec.Key().String())
	}
	return merged, nil
}

// Update rewrites a record's mutable fields (score, frequency) by primary key.
// Returns domain.ErrNotFound when no row matches.
func (r *Repo) Update(ctx context.Context, rec *domain.PhraseRecord) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx,
		`UPDATE phrase_records SET score = $2, frequency = $3, updated_at = now() WHERE id = $1`,
		rec.ID, rec.Score, rec.Frequency,
	)
	if err != nil {
		return postgres.MapError(err, "phrase_record", rec.ID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("phrase_record %s: %w", rec.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a record by primary key.
// Returns domain.ErrNotFound when no row matches.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, `DELETE FROM phrase_records WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "phrase_record", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("phrase_record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const byKeySQL = `
SELECT ` + recordColumns + `
FROM phrase_records
WHERE observed_on = $1 AND phrase = $2 AND phrase_kind = $3 AND source = $4
ORDER BY created_at, id`

// GetByKey returns the record matching a uniqueness key.
// Returns domain.ErrNotFound when the key is absent and domain.ErrConflict
// when more than one row matches (a pre-invariant store).
func (r *Repo) GetByKey(ctx context.Context, key domain.RecordKey) (*domain.PhraseRecord, error) {
	records, err := r.ListByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, fmt.Errorf("phrase_record %s: %w", key, domain.ErrNotFound)
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("phrase_record %s: %d rows: %w", key, len(records), domain.ErrConflict)
	}
}

// ListByKey returns every record matching a uniqueness key, oldest first.
// On a store honoring the invariant this is zero or one row; duplicate rows
// indicate an earlier invariant breach awaiting reconciliation.
func (r *Repo) ListByKey(ctx context.Context, key domain.RecordKey) ([]*domain.PhraseRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, byKeySQL, key.ObservedOn, key.Phrase, key.Kind, key.Source)
	if err != nil {
		return nil, postgres.MapError(err, "phrase_record", key.String())
	}
	defer rows.Close()

	return scanRecords(rows)
}

const selectRangeSQL = `
SELECT ` + recordColumns + `
FROM phrase_records
WHERE observed_on >= $1 AND observed_on <= $2
ORDER BY observed_on, phrase, phrase_kind, source`

// SelectRange returns all records observed within [from, to] inclusive,
// in deterministic order. Returns an empty slice when the range is empty.
func (r *Repo) SelectRange(ctx context.Context, from, to time.Time) ([]*domain.PhraseRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, selectRangeSQL, domain.DayOf(from), domain.DayOf(to))
	if err != nil {
		return nil, fmt.Errorf("select range: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

const duplicateKeysSQL = `
SELECT observed_on, phrase, phrase_kind, source
FROM phrase_records
GROUP BY observed_on, phrase, phrase_kind, source
HAVING count(*) > 1
ORDER BY observed_on, phrase`

// DuplicateKeys returns every uniqueness key held by more than one row.
// Empty on a store honoring the invariant.
func (r *Repo) DuplicateKeys(ctx context.Context) ([]domain.RecordKey, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, duplicateKeysSQL)
	if err != nil {
		return nil, fmt.Errorf("duplicate keys: %w", err)
	}
	defer rows.Close()

	var keys []domain.RecordKey
	for rows.Next() {
		var k domain.RecordKey
		if err := rows.Scan(&k.ObservedOn, &k.Phrase, &k.Kind, &k.Source); err != nil {
			return nil, fmt.Errorf("scan duplicate key: %w", err)
		}
		k.ObservedOn = domain.DayOf(k.ObservedOn)
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("duplicate keys: %w", err)
	}
	return keys, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanRecord(row pgx.Row) (*domain.PhraseRecord, error) {
	var rec domain.PhraseRecord
	err := row.Scan(
		&rec.ID, &rec.ObservedOn, &rec.Phrase, &rec.Kind, &rec.Source,
		&rec.Score, &rec.Frequency, &rec.Category, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.ObservedOn = domain.DayOf(rec.ObservedOn)
	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]*domain.PhraseRecord, error) {
	records := []*domain.PhraseRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan phrase_record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read phrase_records: %w", err)
	}
	return records, nil
}
