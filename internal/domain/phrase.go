package domain

import (
	"time"

	"github.com/google/uuid"
)

// PhraseRecord is one phrase observation: a phrase seen on a calendar day,
// attributed to one producer. Repeated observations of the same key are
// merged (frequency summed, score maxed), never duplicated.
type PhraseRecord struct {
	ID         uuid.UUID
	ObservedOn time.Time // calendar day, UTC midnight
	Phrase     string
	Kind       PhraseKind
	Source     Source
	Score      float64
	Frequency  int
	Category   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecordKey is the uniqueness key of a PhraseRecord. No two persisted records
// may share the same key.
type RecordKey struct {
	ObservedOn time.Time
	Phrase     string
	Kind       PhraseKind
	Source     Source
}

// String renders the key for logs and error messages.
func (k RecordKey) String() string {
	return k.ObservedOn.Format("2006-01-02") + "/" + k.Phrase + "/" + string(k.Kind) + "/" + string(k.Source)
}

// Key returns the record's uniqueness key with the date truncated to a day.
func (r *PhraseRecord) Key() RecordKey {
	return RecordKey{
		ObservedOn: DayOf(r.ObservedOn),
		Phrase:     r.Phrase,
		Kind:       r.Kind,
		Source:     r.Source,
	}
}

// Validate checks the basic sanity of a candidate record before it may reach
// the store. Failures are ValidationErrors, not storage errors.
func (r *PhraseRecord) Validate() error {
	var errs []FieldError
	if r.Phrase == "" {
		errs = append(errs, FieldError{Field: "phrase", Message: "must not be empty"})
	}
	if !r.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "phrase_kind", Message: "unknown kind " + string(r.Kind)})
	}
	if r.Source == "" {
		errs = append(errs, FieldError{Field: "source", Message: "must not be empty"})
	}
	if r.Frequency <= 0 {
		errs = append(errs, FieldError{Field: "frequency", Message: "must be positive"})
	}
	if r.Score < 0 {
		errs = append(errs, FieldError{Field: "score", Message: "must not be negative"})
	}
	if r.ObservedOn.IsZero() {
		errs = append(errs, FieldError{Field: "date", Message: "must be set"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// WeeklySummary is the derived roll-up of one phrase over a 7-day window.
// Rows are wholly recomputed per window, never patched incrementally.
type WeeklySummary struct {
	ID             uuid.UUID
	WeekStart      time.Time
	WeekEnd        time.Time
	Phrase         string
	Kind           PhraseKind
	TotalScore     float64
	AverageScore   float64
	TotalFrequency int
	AppearanceDays int
	DominantSource Source
	CreatedAt      time.Time
}
