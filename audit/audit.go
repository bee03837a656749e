package audit

import (
	"errors"
	"time"
)

const (
	// Retention is how long request entries are kept
	Retention = 30 * 24 * time.Hour
	// DeleteRetention is how long delete-log entries are kept
	DeleteRetention = 90 * 24 * time.Hour

	DateLayout = "2006-01-02"

	DefaultLimit = 100
	MaxLimit     = 1000
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

/* Entry is one audited request.
 * Optional fields are empty when they do not apply, e.g. CustomerID on
 * management paths or WebhookID on failed ingestions.
 */
type Entry struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Method         string    `json:"method"`
	Path           string    `json:"path"`
	StatusCode     int       `json:"statusCode"`
	CustomerID     string    `json:"customerId,omitempty"`
	SourceIP       string    `json:"sourceIp,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	ContentType    string    `json:"contentType,omitempty"`
	RequestSize    int64     `json:"requestSize"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	WebhookID      string    `json:"webhookId,omitempty"`
}

// DeleteEntry records who removed which stored object
type DeleteEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	WebhookID  string    `json:"webhookId"`
	DeletedKey string    `json:"deletedKey"`
	SourceIP   string    `json:"sourceIp,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
}

// Filter narrows an audit query. From and To are inclusive UTC dates.
type Filter struct {
	CustomerID string
	StatusCode int
	From       string
	To         string
	Limit      int
	Offset     int
}

// Page is one page of audit entries, newest first
type Page struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Validate checks the date bounds and normalizes paging
func (f *Filter) Validate() error {
	if f.From != "" {
		if _, err := time.Parse(DateLayout, f.From); err != nil {
			return ErrInvalidDate
		}
	}
	if f.To != "" {
		if _, err := time.Parse(DateLayout, f.To); err != nil {
			return ErrInvalidDate
		}
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return nil
}

// Bounds returns the half-open time range [from, to) covered by the filter.
// A missing From starts at the retention horizon; a missing To ends after today.
func (f Filter) Bounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := now.Add(-Retention).Truncate(24 * time.Hour)
	if f.From != "" {
		if t, err := time.Parse(DateLayout, f.From); err == nil {
			from = t
		}
	}
	to := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	if f.To != "" {
		if t, err := time.Parse(DateLayout, f.To); err == nil {
			to = t.Add(24 * time.Hour)
		}
	}
	return from, to
}

// Matches applies the non-date predicates of the filter
func (f Filter) Matches(e Entry) bool {
	if f.CustomerID != "" && e.CustomerID != f.CustomerID {
		return false
	}
	if f.StatusCode != 0 && e.StatusCode != f.StatusCode {
		return false
	}
	return true
}
