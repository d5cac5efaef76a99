// Package cleanup reconciles uniqueness-invariant breaches left behind by
// stores that predate the key constraint: rows sharing one
// (date, phrase, kind, source) key are folded into a single canonical row
// (frequencies summed, score maxed) and the rest removed. Reconciliation is
// idempotent — a clean store passes through untouched.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/banglatrends/trends-backend/internal/domain"
)

type phraseRepo interface {
	DuplicateKeys(ctx context.Context) ([]domain.RecordKey, error)
	ListByKey(ctx context.Context, key domain.RecordKey) ([]*domain.PhraseRecord, error)
	Update(ctx context.Context, rec *domain.PhraseRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Result holds reconciliation statistics.
type Result struct {
	KeysReconciled int
	RowsRemoved    int
}

// Service reconciles duplicate phrase records.
type Service struct {
	records phraseRepo
	txm     txManager
	dryRun  bool
	log     *slog.Logger
}

// NewService creates a new cleanup service. With dryRun set, duplicates are
// reported but nothing is written.
func NewService(log *slog.Logger, records phraseRepo, txm txManager, dryRun bool) *Service {
	return &Service{
		records: records,
		txm:     txm,
		dryRun:  dryRun,
		log:     log.With("service", "cleanup"),
	}
}

// Reconcile finds every key held by more than one row and merges each group
// into its oldest row. Each key is reconciled in its own transaction, so a
// failure partway leaves earlier keys clean and later ones untouched for the
// next run.
func (s *Service) Reconcile(ctx context.Context) (Result, error) {
	keys, err := s.records.DuplicateKeys(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("find duplicate keys: %w", err)
	}

	var result Result
	for _, key := range keys {
		// A breach means an earlier write bypassed the invariant; recovery
		// is automatic but worth flagging.
		s.log.WarnContext(ctx, "integrity conflict: duplicate key",
			slog.String("key", key.String()),
		)

		if s.dryRun {
			result.KeysReconciled++
			continue
		}

		removed, err := s.reconcileKey(ctx, key)
		if err != nil {
			return result, fmt.Errorf("reconcile %s: %w", key, err)
		}
		result.KeysReconciled++
		result.RowsRemoved += removed
	}

	s.log.InfoContext(ctx, "reconciliation finished",
		slog.Int("keys", result.KeysReconciled),
		slog.Int("rows_removed", result.RowsRemoved),
		slog.Bool("dry_run", s.dryRun),
	)

	return result, nil
}

// reconcileKey folds all rows sharing one key into the oldest row inside a
// single transaction: all-or-nothing, never frequency-without-score.
func (s *Service) reconcileKey(ctx context.Context, key domain.RecordKey) (int, error) {
	removed := 0

	err := s.txm.RunInTx(ctx, func(ctx context.Context) error {
		rows, err := s.records.ListByKey(ctx, key)
		if err != nil {
			return err
		}
		if len(rows) < 2 {
			// Already clean (another run got here first).
			return nil
		}

		canonical := rows[0]
		for _, extra := range rows[1:] {
			canonical.Frequency += extra.Frequency
			if extra.Score > canonical.Score {
				canonical.Score = extra.Score
			}
		}

		if err := s.records.Update(ctx, canonical); err != nil {
			return fmt.Errorf("update canonical: %w", err)
		}
		for _, extra := range rows[1:] {
			if err := s.records.Delete(ctx, extra.ID); err != nil {
				return fmt.Errorf("delete duplicate: %w", err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
