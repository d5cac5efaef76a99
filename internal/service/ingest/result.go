package ingest

import "github.com/banglatrends/trends-backend/internal/domain"

// RecordFailure reports one candidate that was rejected before reaching the
// store. The rest of the batch proceeds.
type RecordFailure struct {
	Phrase string
	Err    error
}

// Result holds the outcome of one ingestion batch.
type Result struct {
	// Records is the post-merge state of every successfully applied record.
	Records []*domain.PhraseRecord

	// Failures lists candidates rejected by validation or a collaborator.
	Failures []RecordFailure

	// Parsed counts list items recognized in the block.
	Parsed int
	// Inserted counts records new to the store.
	Inserted int
	// Merged counts records folded into an existing row.
	Merged int
	// SkippedLines counts non-blank lines the parser ignored.
	SkippedLines int
}
