// Package ingest runs the ingestion pipeline: parse a raw text block, build
// candidate phrase records, and apply them to the store with merge-on-match
// semantics. Per-record validation failures are accumulated and returned with
// the partial result; store failures abort the whole batch.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/banglatrends/trends-backend/internal/domain"
	"github.com/banglatrends/trends-backend/internal/listparse"
)

type phraseRepo interface {
	Upsert(ctx context.Context, rec *domain.PhraseRecord) (*domain.PhraseRecord, error)
}

// FrequencyLookup is the optional collaborator that counts how often a
// phrase occurs in a source corpus. Without it, frequency defaults to 1.
type FrequencyLookup interface {
	CountOccurrences(ctx context.Context, phrase string) (int, error)
}

// Service runs ingestion batches against a phrase record store.
type Service struct {
	records      phraseRepo
	freq         FrequencyLookup // nil means frequency defaults to 1
	defaultScore float64
	log          *slog.Logger
}

// NewService creates a new ingestion service. freq may be nil.
func NewService(log *slog.Logger, records phraseRepo, freq FrequencyLookup, defaultScore float64) *Service {
	return &Service{
		records:      records,
		freq:         freq,
		defaultScore: defaultScore,
		log:          log.With("service", "ingest"),
	}
}

// Ingest parses the block, builds candidates, and upserts each one. The
// returned Result carries the post-merge records together with per-record
// failures. A store-level error aborts the batch and is returned as the
// error; whatever the upsert already committed stays committed, and the
// caller retries the whole batch (re-ingestion merges, it does not duplicate
// keys — though frequencies of re-applied records will accumulate).
func (s *Service) Ingest(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	items, stats := listparse.Parse(in.RawText)

	candidates, failures := s.buildRecords(ctx, items, in)

	result := &Result{
		Failures:     failures,
		Parsed:       stats.Items,
		SkippedLines: stats.Skipped,
	}

	for _, candidate := range candidates {
		merged, err := s.records.Upsert(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("apply %q: %w", candidate.Phrase, err)
		}

		// The upsert folds frequencies; a returned frequency above the
		// candidate's means an existing row absorbed it.
		if merged.Frequency > candidate.Frequency {
			result.Merged++
		} else {
			result.Inserted++
		}
		result.Records = append(result.Records, merged)
	}

	s.log.InfoContext(ctx, "batch ingested",
		slog.String("source", in.Source.String()),
		slog.String("kind", in.Kind.String()),
		slog.Time("date", domain.DayOf(in.Date)),
		slog.Int("parsed", result.Parsed),
		slog.Int("inserted", result.Inserted),
		slog.Int("merged", result.Merged),
		slog.Int("rejected", len(result.Failures)),
		slog.Int("skipped_lines", result.SkippedLines),
	)

	return result, nil
}
