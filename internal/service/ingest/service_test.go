package ingest

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/banglatrends/trends-backend/internal/domain"
)

// phraseRepoMock implements phraseRepo with real merge semantics over an
// in-memory map, so merge-vs-insert accounting can be asserted end to end.
type phraseRepoMock struct {
	UpsertFunc  func(ctx context.Context, rec *domain.PhraseRecord) (*domain.PhraseRecord, error)
	upsertCalls int
}

func (m *phraseRepoMock) Upsert(ctx context.Context, rec *domain.PhraseRecord) (*domain.PhraseRecord, error) {
	m.upsertCalls++
	return m.UpsertFunc(ctx, rec)
}

// newMemoryStore returns a mock whose Upsert behaves like the real store:
// insert on a new key, frequency-sum and score-max on a known key.
func newMemoryStore() (*phraseRepoMock, map[domain.RecordKey]*domain.PhraseRecord) {
	store := make(map[domain.RecordKey]*domain.PhraseRecord)
	mock := &phraseRepoMock{
		UpsertFunc: func(ctx context.Context, rec *domain.PhraseRecord) (*domain.PhraseRecord, error) {
			key := rec.Key()
			if existing, ok := store[key]; ok {
				existing.Frequency += rec.Frequency
				if rec.Score > existing.Score {
					existing.Score = rec.Score
				}
				merged := *existing
				return &merged, nil
			}
			stored := *rec
			store[key] = &stored
			result := stored
			return &result, nil
		},
	}
	return mock, store
}

type frequencyLookupMock struct {
	CountOccurrencesFunc func(ctx context.Context, phrase string) (int, error)
}

func (m *frequencyLookupMock) CountOccurrences(ctx context.Context, phrase string) (int, error) {
	return m.CountOccurrencesFunc(ctx, phrase)
}

func newTestService(records phraseRepo, freq FrequencyLookup) *Service {
	return NewService(slog.Default(), records, freq, 1)
}

func testInput(raw string) Input {
	return Input{
		RawText: raw,
		Date:    time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		Source:  domain.SourceLLM,
		Kind:    domain.PhraseKindTwoWord,
	}
}

func TestIngest_InsertsParsedItems(t *testing.T) {
	t.Parallel()

	mock, store := newMemoryStore()
	svc := newTestService(mock, nil)

	result, err := svc.Ingest(context.Background(), testInput("রাজনীতি:\n১। নির্বাচন কমিশন।\n২। সংসদ অধিবেশন"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Parsed != 2 || result.Inserted != 2 || result.Merged != 0 {
		t.Errorf("counters: parsed=%d inserted=%d merged=%d, want 2/2/0",
			result.Parsed, result.Inserted, result.Merged)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records: got %d, want 2", len(result.Records))
	}
	if len(store) != 2 {
		t.Errorf("store rows: got %d, want 2", len(store))
	}

	first := result.Records[0]
	if first.Phrase != "নির্বাচন কমিশন" {
		t.Errorf("phrase: got %q", first.Phrase)
	}
	if first.Category == nil || *first.Category != "রাজনীতি" {
		t.Errorf("category: got %v, want রাজনীতি", first.Category)
	}
	if first.Frequency != 1 {
		t.Errorf("frequency: got %d, want 1", first.Frequency)
	}
}

// Merge is additive by design: re-ingesting the same block doubles
// frequencies rather than no-oping.
func TestIngest_RepeatedBlockAccumulatesFrequency(t *testing.T) {
	t.Parallel()

	mock, store := newMemoryStore()
	svc := newTestService(mock, nil)
	in := testInput("১। নির্বাচন কমিশন")

	if _, err := svc.Ingest(context.Background(), in); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	result, err := svc.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if result.Inserted != 0 || result.Merged != 1 {
		t.Errorf("counters: inserted=%d merged=%d, want 0/1", result.Inserted, result.Merged)
	}
	if got := result.Records[0].Frequency; got != 2 {
		t.Errorf("frequency after re-ingest: got %d, want 2", got)
	}
	if len(store) != 1 {
		t.Errorf("store rows: got %d, want 1 (no duplicate key)", len(store))
	}
}

func TestIngest_MergeKeepsMaxScore(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	svc := newTestService(mock, nil)

	high := testInput("১। নির্বাচন কমিশন")
	high.Scores = UniformScore(9)
	if _, err := svc.Ingest(context.Background(), high); err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	low := testInput("১। নির্বাচন কমিশন")
	low.Scores = UniformScore(4)
	result, err := svc.Ingest(context.Background(), low)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if got := result.Records[0].Score; got != 9 {
		t.Errorf("score after merge: got %v, want 9 (max wins)", got)
	}
}

func TestIngest_RankScorePolicy(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	svc := newTestService(mock, nil)

	in := testInput("1. প্রথম কথা\n2. দ্বিতীয় কথা\n3. তৃতীয় কথা")
	in.Scores = RankScore(10, 1)

	result, err := svc.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{10, 9, 8}
	for i, rec := range result.Records {
		if rec.Score != want[i] {
			t.Errorf("rank %d score: got %v, want %v", i+1, rec.Score, want[i])
		}
	}
}

func TestIngest_ValidationFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	svc := newTestService(mock, nil)

	in := testInput("1. প্রথম কথা\n2. দ্বিতীয় কথা")
	in.Scores = func(rank int) float64 {
		if rank == 1 {
			return -5 // invalid: negative score
		}
		return 1
	}

	result, err := svc.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Failures) != 1 {
		t.Fatalf("failures: got %d, want 1", len(result.Failures))
	}
	if !errors.Is(result.Failures[0].Err, domain.ErrValidation) {
		t.Errorf("failure error %v does not unwrap to ErrValidation", result.Failures[0].Err)
	}
	if len(result.Records) != 1 {
		t.Errorf("records: got %d, want 1 (batch continued)", len(result.Records))
	}
}

func TestIngest_StoreErrorAbortsBatch(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	mock := &phraseRepoMock{
		UpsertFunc: func(ctx context.Context, rec *domain.PhraseRecord) (*domain.PhraseRecord, error) {
			return nil, storeErr
		},
	}
	svc := newTestService(mock, nil)

	_, err := svc.Ingest(context.Background(), testInput("১। নির্বাচন কমিশন"))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if mock.upsertCalls != 1 {
		t.Errorf("upsert calls: got %d, want 1 (batch aborted)", mock.upsertCalls)
	}
}

func TestIngest_FrequencyLookup(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	freq := &frequencyLookupMock{
		CountOccurrencesFunc: func(ctx context.Context, phrase string) (int, error) {
			if phrase == "নির্বাচন কমিশন" {
				return 7, nil
			}
			return 0, nil
		},
	}
	svc := newTestService(mock, freq)

	result, err := svc.Ingest(context.Background(), testInput("১। নির্বাচন কমিশন\n২। সংসদ অধিবেশন"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Records[0].Frequency; got != 7 {
		t.Errorf("looked-up frequency: got %d, want 7", got)
	}
	// A corpus miss still means the phrase was observed once in this block.
	if got := result.Records[1].Frequency; got != 1 {
		t.Errorf("miss frequency: got %d, want 1", got)
	}
}

func TestIngest_FrequencyLookupErrorIsPerRecord(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	lookupErr := errors.New("corpus offline")
	freq := &frequencyLookupMock{
		CountOccurrencesFunc: func(ctx context.Context, phrase string) (int, error) {
			if phrase == "নির্বাচন কমিশন" {
				return 0, lookupErr
			}
			return 2, nil
		},
	}
	svc := newTestService(mock, freq)

	result, err := svc.Ingest(context.Background(), testInput("১। নির্বাচন কমিশন\n২। সংসদ অধিবেশন"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failures) != 1 || !errors.Is(result.Failures[0].Err, lookupErr) {
		t.Fatalf("failures: got %+v, want one wrapping lookup error", result.Failures)
	}
	if len(result.Records) != 1 {
		t.Errorf("records: got %d, want 1", len(result.Records))
	}
}

func TestIngest_DefaultCategoryFallback(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	svc := newTestService(mock, nil)

	in := testInput("১। নির্বাচন কমিশন")
	in.DefaultCategory = "সাধারণ"

	result, err := svc.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Records[0].Category; got == nil || *got != "সাধারণ" {
		t.Errorf("category: got %v, want সাধারণ", got)
	}
}

func TestIngest_NoCategoryMeansNil(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	svc := newTestService(mock, nil)

	result, err := svc.Ingest(context.Background(), testInput("১। নির্বাচন কমিশন"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Records[0].Category; got != nil {
		t.Errorf("category: got %v, want nil", got)
	}
}

func TestIngest_EmptyBlock(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	svc := newTestService(mock, nil)

	result, err := svc.Ingest(context.Background(), testInput(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Parsed != 0 || len(result.Records) != 0 {
		t.Errorf("empty block: parsed=%d records=%d, want 0/0", result.Parsed, len(result.Records))
	}
	if mock.upsertCalls != 0 {
		t.Errorf("upsert calls: got %d, want 0", mock.upsertCalls)
	}
}

func TestIngest_InvalidInput(t *testing.T) {
	t.Parallel()

	mock, _ := newMemoryStore()
	svc := newTestService(mock, nil)

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero date", func(in *Input) { in.Date = time.Time{} }},
		{"empty source", func(in *Input) { in.Source = "" }},
		{"invalid kind", func(in *Input) { in.Kind = "HAIKU" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := testInput("১। নির্বাচন কমিশন")
			tt.mutate(&in)
			if _, err := svc.Ingest(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
