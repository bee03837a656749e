package audit

import (
	"context"
	"time"
)

// Reader queries the audit trail
type Reader interface {
	Query(ctx context.Context, f Filter) (Page, error)
	// CountByStatus counts the entries of one UTC day per status code
	CountByStatus(ctx context.Context, day time.Time) (map[int]int64, error)
}

// Writer appends to the audit trail and the delete log
type Writer interface {
	Record(ctx context.Context, e Entry) error
	RecordDeletion(ctx context.Context, e DeleteEntry) error
}

// Sink is one audit backend. A deployment uses exactly one.
type Sink interface {
	Reader
	Writer
}

// Purger is implemented by sinks without native per-entry expiry
type Purger interface {
	// Purge removes entries past their retention window and returns how many
	// audit and delete-log rows were removed
	Purge(ctx context.Context, now time.Time) (int64, int64, error)
}

// Pinger is implemented by sinks that benefit from a periodic keep-warm ping
type Pinger interface {
	Ping(ctx context.Context) error
}

// DeletionReader lists the delete log of one UTC day
type DeletionReader interface {
	Deletions(ctx context.Context, day time.Time) ([]DeleteEntry, error)
}
