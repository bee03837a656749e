package payload

import (
	"context"
	"time"
)

// Object is a blob as seen by the storage layer
type Object struct {
	Key          string
	Body         []byte
	ContentType  string
	Size         int64
	LastModified time.Time
	Metadata     map[string]string
}

// ObjectPage is one page of a prefix listing
type ObjectPage struct {
	Objects    []Object
	NextCursor string
	Truncated  bool
}

// Reader provides read operations on the blob store
type Reader interface {
	Get(ctx context.Context, key string) (Object, error)
	/* List returns up to limit objects under prefix, with metadata but
	 * without bodies. cursor is the opaque value of a previous NextCursor.
	 */
	List(ctx context.Context, prefix string, limit int, cursor string) (ObjectPage, error)
	/* FindKey scans every object under prefix for the one whose file name
	 * belongs to id. There is no secondary index: this is linear in the
	 * number of objects under prefix.
	 */
	FindKey(ctx context.Context, prefix, id string) (string, error)
}

// Writer provides write operations. Objects are write-once.
type Writer interface {
	Put(ctx context.Context, obj Object) error
	Delete(ctx context.Context, key string) error
}

type Repository interface {
	Reader
	Writer
}
