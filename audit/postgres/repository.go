package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/webhook-vault/audit"
)

/* PostgreSQL implementation of audit.Sink
 * Filtering, ordering and paging happen in SQL. Rows do not expire on their
 * own, so this sink also implements audit.Purger and audit.Pinger.
 */

const auditColumns = `id, timestamp, method, path, status_code, customer_id, source_ip, user_agent,
		content_type, request_size, response_time_ms, error_message, webhook_id`

type Repository struct {
	DB *sql.DB
}

// NewRepository opens a PostgreSQL audit sink with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig opens a PostgreSQL audit sink with a custom pool
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// Record inserts an audit row. The row id is assigned by the database.
func (r *Repository) Record(ctx context.Context, e audit.Entry) error {
	query := `
		INSERT INTO audit_logs (timestamp, method, path, status_code, customer_id, source_ip, user_agent,
			content_type, request_size, response_time_ms, error_message, webhook_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.Timestamp.UTC(), e.Method, e.Path, e.StatusCode,
		nullString(e.CustomerID), nullString(e.SourceIP), nullString(e.UserAgent), nullString(e.ContentType),
		e.RequestSize, e.ResponseTimeMs,
		nullString(e.ErrorMessage), nullString(e.WebhookID),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// RecordDeletion inserts a delete-log row
func (r *Repository) RecordDeletion(ctx context.Context, e audit.DeleteEntry) error {
	query := `
		INSERT INTO delete_logs (timestamp, webhook_id, deleted_key, source_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.Timestamp.UTC(), e.WebhookID, e.DeletedKey, nullString(e.SourceIP), nullString(e.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("inserting delete-log entry: %w", err)
	}
	return nil
}

// Query runs the filtered select and a separate count for the page metadata
func (r *Repository) Query(ctx context.Context, f audit.Filter) (audit.Page, error) {
	if err := f.Validate(); err != nil {
		return audit.Page{}, err
	}
	from, to := f.Bounds(time.Now())

	conds := []string{"timestamp >= $1", "timestamp < $2"}
	args := []any{from, to}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if f.StatusCode != 0 {
		args = append(args, f.StatusCode)
		conds = append(conds, fmt.Sprintf("status_code = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs WHERE "+where, args...).Scan(&total)
	if err != nil {
		return audit.Page{}, fmt.Errorf("counting audit entries: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM audit_logs WHERE %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d",
		auditColumns, where, len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return audit.Page{}, fmt.Errorf("selecting audit entries: %w", err)
	}
	defer rows.Close()

	page := audit.Page{
		Entries: []audit.Entry{},
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
	}
	for rows.Next() {
		var (
			e                       audit.Entry
			id                      int64
			customerID, sourceIP    sql.NullString
			userAgent, contentType  sql.NullString
			errorMessage, webhookID sql.NullString
		)
		err := rows.Scan(&id, &e.Timestamp, &e.Method, &e.Path, &e.StatusCode,
			&customerID, &sourceIP, &userAgent, &contentType,
			&e.RequestSize, &e.ResponseTimeMs, &errorMessage, &webhookID)
		if err != nil {
			return audit.Page{}, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.Timestamp = e.Timestamp.UTC()
		e.CustomerID = customerID.String
		e.SourceIP = sourceIP.String
		e.UserAgent = userAgent.String
		e.ContentType = contentType.String
		e.ErrorMessage = errorMessage.String
		e.WebhookID = webhookID.String
		page.Entries = append(page.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return audit.Page{}, fmt.Errorf("iterating audit entries: %w", err)
	}
	return page, nil
}

// CountByStatus counts one UTC day of audit rows per status code
func (r *Repository) CountByStatus(ctx context.Context, day time.Time) (map[int]int64, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	query := `
		SELECT status_code, COUNT(*) FROM audit_logs
		WHERE timestamp >= $1 AND timestamp < $2
		GROUP BY status_code
	`
	rows, err := r.DB.QueryContext(ctx, query, start, start.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("counting audit entries by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var status int
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}

// Deletions returns the delete-log rows of one UTC day, newest first
func (r *Repository) Deletions(ctx context.Context, day time.Time) ([]audit.DeleteEntry, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	query := `
		SELECT id, timestamp, webhook_id, deleted_key, source_ip, user_agent FROM delete_logs
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, start, start.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("selecting delete-log entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.DeleteEntry
	for rows.Next() {
		var e audit.DeleteEntry
		var id int64
		var sourceIP, userAgent sql.NullString
		if err := rows.Scan(&id, &e.Timestamp, &e.WebhookID, &e.DeletedKey, &sourceIP, &userAgent); err != nil {
			return nil, fmt.Errorf("scanning delete-log entry: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.Timestamp = e.Timestamp.UTC()
		e.SourceIP = sourceIP.String
		e.UserAgent = userAgent.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating delete-log entries: %w", err)
	}
	return entries, nil
}

// Purge deletes audit rows older than 30 days and delete-log rows older than 90 days
func (r *Repository) Purge(ctx context.Context, now time.Time) (int64, int64, error) {
	audits, err := r.purge(ctx, "audit_logs", now.Add(-audit.Retention))
	if err != nil {
		return 0, 0, err
	}
	deletions, err := r.purge(ctx, "delete_logs", now.Add(-audit.DeleteRetention))
	if err != nil {
		return audits, 0, err
	}
	return audits, deletions, nil
}

func (r *Repository) purge(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM "+table+" WHERE timestamp < $1", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purging %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return n, nil
}

// Ping issues a trivial query to keep the connection pool warm
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("keep-warm query: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
