package metrics

import (
	"context"
	"time"
)

// Snapshot represents the current state of the vault.
type Snapshot struct {
	// Directory holds the configured customer and outlet counts
	Directory DirectoryCounts `json:"directory"`

	// StatusClasses maps a status class ("2xx", "4xx", ...) to the number of
	// audited requests recorded today (UTC)
	StatusClasses map[string]int64 `json:"status_classes"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// DirectoryCounts describes the size of the customer directory.
type DirectoryCounts struct {
	Customers int64 `json:"customers"`
	Outlets   int64 `json:"outlets"`
}

// Collector defines the interface for collecting metrics from the vault.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Snapshot, error)

	// GetDirectoryCounts returns the configured customers and outlets
	GetDirectoryCounts(ctx context.Context) (DirectoryCounts, error)

	// GetStatusClasses returns today's audited requests grouped by status class
	GetStatusClasses(ctx context.Context) (map[string]int64, error)
}
