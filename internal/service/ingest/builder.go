package ingest

import (
	"context"
	"fmt"

	"github.com/banglatrends/trends-backend/internal/domain"
	"github.com/banglatrends/trends-backend/internal/listparse"
)

// ScorePolicy assigns a score to a list item given its written rank.
type ScorePolicy func(rank int) float64

// RankScore scores rank 1 at maxScore and subtracts step per rank below it,
// never going below zero.
func RankScore(maxScore, step float64) ScorePolicy {
	return func(rank int) float64 {
		score := maxScore - step*float64(rank-1)
		if score < 0 {
			return 0
		}
		return score
	}
}

// UniformScore assigns the same score to every rank.
func UniformScore(score float64) ScorePolicy {
	return func(int) float64 { return score }
}

// buildRecords turns parse items into candidate records, attaching the
// batch metadata and resolving per-phrase frequency through the optional
// lookup collaborator. A lookup miss (zero occurrences) still yields
// frequency 1: the phrase was, after all, observed once in this block.
func (s *Service) buildRecords(ctx context.Context, items []listparse.Item, in Input) ([]*domain.PhraseRecord, []RecordFailure) {
	records := make([]*domain.PhraseRecord, 0, len(items))
	var failures []RecordFailure

	day := domain.DayOf(in.Date)
	scores := in.Scores
	if scores == nil {
		scores = UniformScore(s.defaultScore)
	}

	for _, item := range items {
		phrase := domain.NormalizePhrase(item.Text)

		frequency := 1
		if s.freq != nil {
			n, err := s.freq.CountOccurrences(ctx, phrase)
			if err != nil {
				failures = append(failures, RecordFailure{
					Phrase: phrase,
					Err:    fmt.Errorf("frequency lookup: %w", err),
				})
				continue
			}
			if n > 0 {
				frequency = n
			}
		}

		rec := &domain.PhraseRecord{
			ObservedOn: day,
			Phrase:     phrase,
			Kind:       in.Kind,
			Source:     in.Source,
			Score:      scores(item.Ordinal),
			Frequency:  frequency,
			Category:   categoryOf(item, in.DefaultCategory),
		}

		if err := rec.Validate(); err != nil {
			failures = append(failures, RecordFailure{Phrase: phrase, Err: err})
			continue
		}

		records = append(records, rec)
	}

	return records, failures
}

func categoryOf(item listparse.Item, fallback string) *string {
	category := item.Category
	if category == "" {
		category = fallback
	}
	if category == "" {
		return nil
	}
	return &category
}
