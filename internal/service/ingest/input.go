package ingest

import (
	"time"

	"github.com/banglatrends/trends-backend/internal/domain"
)

// Input describes one ingestion batch: a raw text block plus the invariant
// metadata every record built from it will carry.
type Input struct {
	// RawText is the text block to parse. An empty block is not an error;
	// it simply produces no records.
	RawText string

	// Date is the calendar day the phrases were observed.
	Date time.Time

	// Source identifies the producer of the block.
	Source domain.Source

	// Kind is the structural tag applied to every record of the batch.
	Kind domain.PhraseKind

	// DefaultCategory is used for items appearing before any category
	// header. Optional; "" means records stay uncategorized.
	DefaultCategory string

	// Scores assigns a score per list rank. Nil falls back to the
	// service's configured uniform default.
	Scores ScorePolicy
}

// Validate checks the batch metadata (not the text content).
func (in Input) Validate() error {
	var errs []domain.FieldError
	if in.Date.IsZero() {
		errs = append(errs, domain.FieldError{Field: "date", Message: "must be set"})
	}
	if in.Source == "" {
		errs = append(errs, domain.FieldError{Field: "source", Message: "must not be empty"})
	}
	if !in.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "phrase_kind", Message: "unknown kind " + string(in.Kind)})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
