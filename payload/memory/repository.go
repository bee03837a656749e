package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marcelsud/webhook-vault/payload"
)

// Repository keeps payloads in process memory. Used for local runs and tests;
// contents are lost on restart.
type Repository struct {
	mu      sync.RWMutex
	objects map[string]payload.Object
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		objects: make(map[string]payload.Object),
		now:     time.Now,
	}
}

func (r *Repository) Put(ctx context.Context, obj payload.Object) error {
	obj.Body = append([]byte(nil), obj.Body...)
	obj.Metadata = maps.Clone(obj.Metadata)
	obj.Size = int64(len(obj.Body))
	obj.LastModified = r.now().UTC()

	r.mu.Lock()
	r.objects[obj.Key] = obj
	r.mu.Unlock()
	return nil
}

func (r *Repository) Get(ctx context.Context, key string) (payload.Object, error) {
	r.mu.RLock()
	obj, ok := r.objects[key]
	r.mu.RUnlock()
	if !ok {
		return payload.Object{}, payload.ErrNotFound
	}
	obj.Body = append([]byte(nil), obj.Body...)
	return obj, nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[key]; !ok {
		return payload.ErrNotFound
	}
	delete(r.objects, key)
	return nil
}

// List pages through keys in lexical order. The cursor is the last key of
// the previous page.
func (r *Repository) List(ctx context.Context, prefix string, limit int, cursor string) (payload.ObjectPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.keys(prefix)
	start := 0
	if cursor != "" {
		start = sort.SearchStrings(keys, cursor)
		if start < len(keys) && keys[start] == cursor {
			start++
		}
	}

	var page payload.ObjectPage
	for i := start; i < len(keys); i++ {
		if len(page.Objects) == limit {
			page.Truncated = true
			page.NextCursor = page.Objects[len(page.Objects)-1].Key
			break
		}
		obj := r.objects[keys[i]]
		obj.Body = nil
		page.Objects = append(page.Objects, obj)
	}
	return page, nil
}

func (r *Repository) FindKey(ctx context.Context, prefix, id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.keys(prefix) {
		if payload.MatchesID(k, id) {
			return k, nil
		}
	}
	return "", payload.ErrNotFound
}

// keys must be called with the lock held
func (r *Repository) keys(prefix string) []string {
	var keys []string
	for k := range r.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
