// Package aggregate folds daily phrase records into weekly summaries.
// A window's summaries are always recomputed from scratch and swapped in
// atomically; they are a derived cache of the daily data, never edited.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/banglatrends/trends-backend/internal/domain"
)

type recordRepo interface {
	SelectRange(ctx context.Context, from, to time.Time) ([]*domain.PhraseRecord, error)
}

type summaryRepo interface {
	ReplaceWindow(ctx context.Context, weekStart, weekEnd time.Time, summaries []domain.WeeklySummary) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service computes and persists weekly summaries.
type Service struct {
	records   recordRepo
	summaries summaryRepo
	txm       txManager
	log       *slog.Logger
}

// NewService creates a new aggregation service.
func NewService(log *slog.Logger, records recordRepo, summaries summaryRepo, txm txManager) *Service {
	return &Service{
		records:   records,
		summaries: summaries,
		txm:       txm,
		log:       log.With("service", "aggregate"),
	}
}

// AggregateWeek recomputes the summaries for [weekStart, weekEnd] inclusive
// and replaces the persisted window with them. The read and the replacement
// run in one transaction, so the summaries always reflect a consistent
// snapshot even while ingestion continues. An empty window yields zero rows.
func (s *Service) AggregateWeek(ctx context.Context, weekStart, weekEnd time.Time) ([]domain.WeeklySummary, error) {
	weekStart, weekEnd = domain.DayOf(weekStart), domain.DayOf(weekEnd)
	if weekEnd.Before(weekStart) {
		return nil, domain.NewValidationError("week_end", "must not precede week_start")
	}

	var summaries []domain.WeeklySummary

	err := s.txm.RunInTx(ctx, func(ctx context.Context) error {
		records, err := s.records.SelectRange(ctx, weekStart, weekEnd)
		if err != nil {
			return fmt.Errorf("select window: %w", err)
		}

		summaries = summarize(records, weekStart, weekEnd)

		if err := s.summaries.ReplaceWindow(ctx, weekStart, weekEnd, summaries); err != nil {
			return fmt.Errorf("replace window: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "week aggregated",
		slog.Time("week_start", weekStart),
		slog.Time("week_end", weekEnd),
		slog.Int("summaries", len(summaries)),
	)

	return summaries, nil
}

type groupKey struct {
	phrase string
	kind   domain.PhraseKind
}

type accumulator struct {
	totalScore     float64
	totalFrequency int
	days           map[time.Time]struct{}
	sourceFreq     map[domain.Source]int
}

// summarize groups records by (phrase, kind) and computes the window totals.
// Multiple sources observing a phrase on the same day count as one
// appearance day. Results are ordered by phrase then kind for determinism.
func summarize(records []*domain.PhraseRecord, weekStart, weekEnd time.Time) []domain.WeeklySummary {
	groups := make(map[groupKey]*accumulator)

	for _, rec := range records {
		key := groupKey{phrase: rec.Phrase, kind: rec.Kind}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				days:       make(map[time.Time]struct{}),
				sourceFreq: make(map[domain.Source]int),
			}
			groups[key] = acc
		}

		acc.totalScore += rec.Score
		acc.totalFrequency += rec.Frequency
		acc.days[domain.DayOf(rec.ObservedOn)] = struct{}{}
		acc.sourceFreq[rec.Source] += rec.Frequency
	}

	summaries := make([]domain.WeeklySummary, 0, len(groups))
	for key, acc := range groups {
		days := len(acc.days)
		summaries = append(summaries, domain.WeeklySummary{
			WeekStart:      weekStart,
			WeekEnd:        weekEnd,
			Phrase:         key.phrase,
			Kind:           key.kind,
			TotalScore:     acc.totalScore,
			AverageScore:   acc.totalScore / float64(days),
			TotalFrequency: acc.totalFrequency,
			AppearanceDays: days,
			DominantSource: dominantSource(acc.sourceFreq),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Phrase != summaries[j].Phrase {
			return summaries[i].Phrase < summaries[j].Phrase
		}
		return summaries[i].Kind < summaries[j].Kind
	})

	return summaries
}

// dominantSource picks the source with the highest cumulative frequency,
// breaking ties by the lexicographically smaller source name.
func dominantSource(freq map[domain.Source]int) domain.Source {
	var (
		best     domain.Source
		bestFreq = -1
	)
	for source, f := range freq {
		if f > bestFreq || (f == bestFreq && source < best) {
			best = source
			bestFreq = f
		}
	}
	return best
}
