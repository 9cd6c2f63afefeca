package numbering

import "context"

// Store persists one monotonically increasing counter per document kind.
// A kind that was never advanced reads as 0.
type Store interface {
	LastIssued(ctx context.Context, kind Kind) (int64, error)

	// AdvanceCounter increments the counter for kind by exactly one and
	// returns the new value. The read-increment-write must be a single
	// atomic, durable step: two concurrent calls never return the same value.
	AdvanceCounter(ctx context.Context, kind Kind) (int64, error)
}

// TemplateSource supplies the prefix and template for a document kind.
type TemplateSource interface {
	NumberingTemplate(ctx context.Context, kind Kind) (prefix string, tmpl Template, err error)
}
