package payload

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/marcelsud/webhook-vault/customer"
)

// DateLayout is the calendar-date segment of a storage key
const DateLayout = "2006-01-02"

// Key is the parsed form of {type}/{customer}/{date}/{id}.{ext}
type Key struct {
	Type       string
	CustomerID string
	Date       string
	ID         string
	Ext        string
}

// String composes the storage key
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s.%s", k.Type, k.CustomerID, k.Date, k.ID, k.Ext)
}

// NewKey builds the key for a payload received at receivedAt (UTC date)
func NewKey(typ, customerID, id, contentType string, receivedAt time.Time) Key {
	return Key{
		Type:       typ,
		CustomerID: customerID,
		Date:       receivedAt.UTC().Format(DateLayout),
		ID:         id,
		Ext:        Extension(contentType),
	}
}

// ParseKey splits a storage key into its segments
func ParseKey(key string) (Key, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("malformed storage key %q", key)
	}
	id, ext, ok := strings.Cut(parts[3], ".")
	if !ok || id == "" || ext == "" {
		return Key{}, fmt.Errorf("malformed file name in storage key %q", key)
	}
	return Key{
		Type:       parts[0],
		CustomerID: parts[1],
		Date:       parts[2],
		ID:         id,
		Ext:        ext,
	}, nil
}

// MatchesID reports whether the file name portion of key belongs to id
func MatchesID(key, id string) bool {
	return strings.HasPrefix(path.Base(key), id+".")
}

// Prefix builds a hierarchical listing prefix. A segment is only used when
// every less specific segment to its left is present.
func Prefix(typ, customerID, date string) string {
	if typ == "" {
		return ""
	}
	if customerID == "" {
		return typ + "/"
	}
	if date == "" {
		return typ + "/" + customerID + "/"
	}
	return typ + "/" + customerID + "/" + date + "/"
}

var extensions = map[string]string{
	"application/json":                  "json",
	"application/xml":                   "xml",
	"text/xml":                          "xml",
	"text/csv":                          "csv",
	"text/plain":                        "txt",
	"application/x-www-form-urlencoded": "form",
	"multipart/form-data":               "form",
}

// Extension maps a Content-Type to the file extension of the stored object.
// Unknown or absent types are stored as opaque binaries.
func Extension(contentType string) string {
	if ext, ok := extensions[customer.MediaType(contentType)]; ok {
		return ext
	}
	return "bin"
}
