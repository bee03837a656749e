package metrics

import (
	"context"
	"fmt"
	"time"
)

// StatusCounter is implemented by audit stores able to count one day of entries
type StatusCounter interface {
	CountByStatus(ctx context.Context, day time.Time) (map[int]int64, error)
}

// DirectorySizer is implemented by the customer directory
type DirectorySizer interface {
	Len() int
	OutletCount() int
}

// AuditCollector implements Collector on top of the audit store
type AuditCollector struct {
	counter   StatusCounter
	directory DirectorySizer
	now       func() time.Time
}

// NewAuditCollector creates a collector reading from the audit store
func NewAuditCollector(counter StatusCounter, directory DirectorySizer) *AuditCollector {
	return &AuditCollector{
		counter:   counter,
		directory: directory,
		now:       time.Now,
	}
}

// Collect gathers all metrics
func (c *AuditCollector) Collect(ctx context.Context) (Snapshot, error) {
	dir, err := c.GetDirectoryCounts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("getting directory counts: %w", err)
	}

	classes, err := c.GetStatusClasses(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("getting status classes: %w", err)
	}

	return Snapshot{
		Directory:     dir,
		StatusClasses: classes,
		Timestamp:     c.now(),
	}, nil
}

// GetDirectoryCounts returns the configured customers and outlets
func (c *AuditCollector) GetDirectoryCounts(ctx context.Context) (DirectoryCounts, error) {
	return DirectoryCounts{
		Customers: int64(c.directory.Len()),
		Outlets:   int64(c.directory.OutletCount()),
	}, nil
}

// GetStatusClasses folds today's per-status counts into classes
func (c *AuditCollector) GetStatusClasses(ctx context.Context) (map[string]int64, error) {
	classes := map[string]int64{
		"2xx": 0,
		"3xx": 0,
		"4xx": 0,
		"5xx": 0,
	}

	counts, err := c.counter.CountByStatus(ctx, c.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}

	for status, n := range counts {
		class := StatusClass(status)
		if _, tracked := classes[class]; tracked {
			classes[class] += n
		}
	}
	return classes, nil
}

// StatusClass maps 404 to "4xx"
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return fmt.Sprintf("%dxx", status/100)
}
