// Package corpus provides an in-memory frequency-lookup collaborator: it
// counts how often a phrase occurs in a set of source documents. Production
// deployments that count against a document store plug in their own
// implementation of the same interface; this one serves CLI runs and tests.
package corpus

import (
	"context"
	"strings"
)

// Counter counts phrase occurrences across an in-memory document set.
type Counter struct {
	docs []string
}

// NewCounter creates a Counter over the given documents.
func NewCounter(docs []string) *Counter {
	return &Counter{docs: docs}
}

// CountOccurrences returns the number of non-overlapping occurrences of
// phrase across all documents. A phrase absent from the corpus counts zero;
// the caller decides what frequency that implies.
func (c *Counter) CountOccurrences(ctx context.Context, phrase string) (int, error) {
	if phrase == "" {
		return 0, nil
	}

	total := 0
	for _, doc := range c.docs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		total += strings.Count(doc, phrase)
	}
	return total, nil
}
