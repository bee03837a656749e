package customer

import (
	"fmt"
	"mime"
	"strings"
)

/* Format is the payload format a customer has agreed to send.
 * All disables content-type gating for that customer.
 */
type Format int

const (
	JSON Format = iota + 1
	XML
	CSV
	Text
	All
)

// String returns the configuration name of the format
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case XML:
		return "xml"
	case CSV:
		return "csv"
	case Text:
		return "text"
	case All:
		return "all"
	default:
		return "unknown"
	}
}

// ParseFormat converts a configuration value into a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	case "csv":
		return CSV, nil
	case "text":
		return Text, nil
	case "all":
		return All, nil
	}
	return 0, fmt.Errorf("invalid format: %q", s)
}

// Validate checks if the format is one of the known values
func (f Format) Validate() error {
	if f < JSON || f > All {
		return fmt.Errorf("invalid format: %d", f)
	}
	return nil
}

// MarshalText lets the directory be rendered with format names
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// FormatOf maps a Content-Type header to its canonical format.
// Parameters such as charset are ignored. Unknown types map to 0.
func FormatOf(contentType string) Format {
	switch MediaType(contentType) {
	case "application/json":
		return JSON
	case "application/xml", "text/xml":
		return XML
	case "text/csv":
		return CSV
	case "text/plain":
		return Text
	}
	return 0
}

// Accepts reports whether a payload with the given Content-Type is allowed.
func (f Format) Accepts(contentType string) bool {
	if f == All {
		return true
	}
	return FormatOf(contentType) == f
}

// MediaType returns the lower-cased base media type of a Content-Type value.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
