package summary_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/banglatrends/trends-backend/internal/adapter/postgres/summary"
	"github.com/banglatrends/trends-backend/internal/adapter/postgres/testhelper"
	"github.com/banglatrends/trends-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*summary.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return summary.New(pool), pool
}

// uniqueWindow isolates parallel tests sharing one database: each test gets
// its own Monday so no two tests write the same (week_start, week_end) pair.
var (
	windowMu  sync.Mutex
	windowSeq = time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)
)

func uniqueWindow(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	windowMu.Lock()
	start := windowSeq
	windowSeq = windowSeq.AddDate(0, 0, 7)
	windowMu.Unlock()
	return start, start.AddDate(0, 0, 6)
}

func buildSummary(text string, freq int, score float64) domain.WeeklySummary {
	return domain.WeeklySummary{
		Phrase:         text,
		Kind:           domain.PhraseKindTwoWord,
		TotalScore:     score,
		AverageScore:   score,
		TotalFrequency: freq,
		AppearanceDays: 1,
		DominantSource: domain.SourceLLM,
	}
}

func TestRepo_ReplaceWindow_InsertAndList(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	weekStart, weekEnd := uniqueWindow(t)

	in := []domain.WeeklySummary{
		buildSummary("নির্বাচন কমিশন", 6, 33),
		buildSummary("সংসদ অধিবেশন", 2, 9),
	}

	if err := repo.ReplaceWindow(ctx, weekStart, weekEnd, in); err != nil {
		t.Fatalf("ReplaceWindow: unexpected error: %v", err)
	}

	got, err := repo.ListWindow(ctx, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("ListWindow: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	// Most frequent first.
	first := got[0]
	if first.Phrase != "নির্বাচন কমিশন" {
		t.Errorf("Phrase: got %q, want the higher-frequency phrase first", first.Phrase)
	}
	if first.ID == uuid.Nil {
		t.Error("ID should be assigned")
	}
	if !first.WeekStart.Equal(weekStart) || !first.WeekEnd.Equal(weekEnd) {
		t.Errorf("window: got [%s, %s], want [%s, %s]", first.WeekStart, first.WeekEnd, weekStart, weekEnd)
	}
	if first.TotalFrequency != 6 || first.TotalScore != 33 {
		t.Errorf("totals: freq=%d score=%v, want 6/33", first.TotalFrequency, first.TotalScore)
	}
	if first.DominantSource != domain.SourceLLM {
		t.Errorf("DominantSource: got %s", first.DominantSource)
	}
	if first.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

// Re-running a window replaces its prior contents rather than appending.
func TestRepo_ReplaceWindow_Overwrite(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	weekStart, weekEnd := uniqueWindow(t)

	if err := repo.ReplaceWindow(ctx, weekStart, weekEnd, []domain.WeeklySummary{
		buildSummary("পুরনো", 1, 1),
		buildSummary("বাসি", 1, 1),
	}); err != nil {
		t.Fatalf("first ReplaceWindow: %v", err)
	}

	if err := repo.ReplaceWindow(ctx, weekStart, weekEnd, []domain.WeeklySummary{
		buildSummary("তাজা", 4, 8),
	}); err != nil {
		t.Fatalf("second ReplaceWindow: %v", err)
	}

	got, err := repo.ListWindow(ctx, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("ListWindow: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 summary after overwrite, got %d", len(got))
	}
	if got[0].Phrase != "তাজা" {
		t.Errorf("Phrase: got %q, want the replacement row", got[0].Phrase)
	}
}

func TestRepo_ReplaceWindow_EmptySetClearsWindow(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	weekStart, weekEnd := uniqueWindow(t)

	if err := repo.ReplaceWindow(ctx, weekStart, weekEnd, []domain.WeeklySummary{
		buildSummary("মুছে যাবে", 1, 1),
	}); err != nil {
		t.Fatalf("seed ReplaceWindow: %v", err)
	}

	if err := repo.ReplaceWindow(ctx, weekStart, weekEnd, nil); err != nil {
		t.Fatalf("clearing ReplaceWindow: %v", err)
	}

	got, err := repo.ListWindow(ctx, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("ListWindow: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty window, got %d rows", len(got))
	}
}

func TestRepo_ReplaceWindow_WindowsAreIsolated(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	week1Start, week1End := uniqueWindow(t)
	week2Start, week2End := uniqueWindow(t)

	if err := repo.ReplaceWindow(ctx, week1Start, week1End, []domain.WeeklySummary{
		buildSummary("প্রথম সপ্তাহ", 1, 1),
	}); err != nil {
		t.Fatalf("week1 ReplaceWindow: %v", err)
	}
	if err := repo.ReplaceWindow(ctx, week2Start, week2End, []domain.WeeklySummary{
		buildSummary("দ্বিতীয় সপ্তাহ", 1, 1),
		buildSummary("আরও একটি", 1, 1),
	}); err != nil {
		t.Fatalf("week2 ReplaceWindow: %v", err)
	}

	got1, err := repo.ListWindow(ctx, week1Start, week1End)
	if err != nil {
		t.Fatalf("ListWindow week1: %v", err)
	}
	if len(got1) != 1 {
		t.Errorf("week1: expected 1 summary, got %d", len(got1))
	}

	got2, err := repo.ListWindow(ctx, week2Start, week2End)
	if err != nil {
		t.Fatalf("ListWindow week2: %v", err)
	}
	if len(got2) != 2 {
		t.Errorf("week2: expected 2 summaries, got %d", len(got2))
	}
}

func TestRepo_ListWindow_UnknownWindow(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	weekStart, weekEnd := uniqueWindow(t)

	got, err := repo.ListWindow(ctx, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("ListWindow: unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("result should not be nil (empty slice expected)")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 summaries, got %d", len(got))
	}
}

func TestRepo_ReplaceWindow_KeepsProvidedID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()
	weekStart, weekEnd := uniqueWindow(t)

	s := buildSummary("স্থির পরিচয়", 1, 1)
	s.ID = uuid.New()

	if err := repo.ReplaceWindow(ctx, weekStart, weekEnd, []domain.WeeklySummary{s}); err != nil {
		t.Fatalf("ReplaceWindow: %v", err)
	}

	got, err := repo.ListWindow(ctx, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("ListWindow: %v", err)
	}
	if len(got) != 1 || got[0].ID != s.ID {
		t.Errorf("expected the provided ID to round-trip, got %+v", got)
	}
}
