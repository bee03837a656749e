package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of audit.Sink
 * Every entry is a JSON string under a date-scoped key with a TTL, so
 * retention is enforced by Redis itself and no purge job is needed.
 * Queries scan the date prefixes in range and filter in process.
 */

const (
	auditPrefix     = "audit"     // audit:{date}:{epoch_ms}:{id}
	deleteLogPrefix = "deletelog" // deletelog:{date}:{epoch_ms}:{id}
	scanCount       = 1000
	mgetBatch       = 500
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis audit sink
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return NewFromClient(client), nil
}

// NewFromClient wraps an existing client
func NewFromClient(client *redis.Client) *Repository {
	return &Repository{client: client}
}

func entryKey(prefix string, ts time.Time, id string) string {
	ts = ts.UTC()
	return fmt.Sprintf("%s:%s:%d:%s", prefix, ts.Format(audit.DateLayout), ts.UnixMilli(), id)
}

// Record stores an audit entry with the audit retention as TTL
func (r *Repository) Record(ctx context.Context, e audit.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}
	err = r.client.Set(ctx, entryKey(auditPrefix, e.Timestamp, e.ID), data, audit.Retention).Err()
	if err != nil {
		return fmt.Errorf("storing audit entry: %w", err)
	}
	return nil
}

// RecordDeletion stores a delete-log entry with the delete-log retention as TTL
func (r *Repository) RecordDeletion(ctx context.Context, e audit.DeleteEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling delete-log entry: %w", err)
	}
	err = r.client.Set(ctx, entryKey(deleteLogPrefix, e.Timestamp, e.ID), data, audit.DeleteRetention).Err()
	if err != nil {
		return fmt.Errorf("storing delete-log entry: %w", err)
	}
	return nil
}

// Query scans every day in the filter range, newest first
func (r *Repository) Query(ctx context.Context, f audit.Filter) (audit.Page, error) {
	if err := f.Validate(); err != nil {
		return audit.Page{}, err
	}
	now := time.Now()
	from, to := f.Bounds(now)
	// Keys older than the retention window have expired
	if horizon := now.UTC().Add(-audit.Retention).Truncate(24 * time.Hour); from.Before(horizon) {
		from = horizon
	}
	if ceiling := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour); to.After(ceiling) {
		to = ceiling
	}

	var matched []audit.Entry
	for day := from; day.Before(to); day = day.Add(24 * time.Hour) {
		entries, err := r.entriesOn(ctx, day)
		if err != nil {
			return audit.Page{}, err
		}
		for _, e := range entries {
			if f.Matches(e) {
				matched = append(matched, e)
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	page := audit.Page{
		Entries: []audit.Entry{},
		Total:   len(matched),
		Limit:   f.Limit,
		Offset:  f.Offset,
	}
	if f.Offset < len(matched) {
		end := min(f.Offset+f.Limit, len(matched))
		page.Entries = matched[f.Offset:end]
	}
	return page, nil
}

// CountByStatus counts one day of audit entries per status code
func (r *Repository) CountByStatus(ctx context.Context, day time.Time) (map[int]int64, error) {
	entries, err := r.entriesOn(ctx, day)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int64)
	for _, e := range entries {
		counts[e.StatusCode]++
	}
	return counts, nil
}

// Deletions returns the delete-log entries of one day
func (r *Repository) Deletions(ctx context.Context, day time.Time) ([]audit.DeleteEntry, error) {
	values, err := r.valuesOn(ctx, deleteLogPrefix, day)
	if err != nil {
		return nil, err
	}
	out := make([]audit.DeleteEntry, 0, len(values))
	for _, v := range values {
		var e audit.DeleteEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Repository) entriesOn(ctx context.Context, day time.Time) ([]audit.Entry, error) {
	values, err := r.valuesOn(ctx, auditPrefix, day)
	if err != nil {
		return nil, err
	}
	out := make([]audit.Entry, 0, len(values))
	for _, v := range values {
		var e audit.Entry
		// Skip entries written by an incompatible version
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// valuesOn scans the keys of one day and fetches them in batches
func (r *Repository) valuesOn(ctx context.Context, prefix string, day time.Time) ([]string, error) {
	pattern := fmt.Sprintf("%s:%s:*", prefix, day.UTC().Format(audit.DateLayout))

	var cursor uint64
	var keys []string
	for {
		var scanKeys []string
		var err error

		scanKeys, cursor, err = r.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning %s keys: %w", prefix, err)
		}
		keys = append(keys, scanKeys...)

		if cursor == 0 {
			break
		}
	}

	var values []string
	for start := 0; start < len(keys); start += mgetBatch {
		end := min(start+mgetBatch, len(keys))
		res, err := r.client.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, fmt.Errorf("fetching %s entries: %w", prefix, err)
		}
		for _, v := range res {
			// nil when the key expired between SCAN and MGET
			if s, ok := v.(string); ok {
				values = append(values, s)
			}
		}
	}
	return values, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}
