package payload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-vault/customer"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// UseCase defines ingestion and retrieval of stored payloads
type UseCase interface {
	Ingest(ctx context.Context, in Inbound) (Payload, error)
	List(ctx context.Context, f Filter) (Page, error)
	Download(ctx context.Context, id, typ string) (Payload, error)
	Delete(ctx context.Context, id, typ string) (string, error)
}

// CustomerResolver finds the policy for a customer id or outlet alias
type CustomerResolver interface {
	Resolve(id string) (customer.Customer, error)
}

// Inbound is a webhook as received on the ingestion path
type Inbound struct {
	Type        string
	CustomerID  string
	ContentType string
	SourceIP    string
	Body        []byte
}

// Filter narrows a listing. Segments are applied as a hierarchical prefix.
type Filter struct {
	Type       string
	CustomerID string
	Date       string
	Limit      int
	Cursor     string
}

// Page is one page of stored payloads, without bodies
type Page struct {
	Webhooks  []Payload
	Cursor    string
	Truncated bool
}

type Service struct {
	Repo      Repository
	Customers CustomerResolver
	types     map[string]struct{}
	now       func() time.Time
	newID     func() string
}

// NewService creates a payload service accepting the given webhook types
func NewService(repo Repository, customers CustomerResolver, enabledTypes []string) *Service {
	types := make(map[string]struct{}, len(enabledTypes))
	for _, t := range enabledTypes {
		types[t] = struct{}{}
	}
	return &Service{
		Repo:      repo,
		Customers: customers,
		types:     types,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Ingest validates an inbound webhook against the customer policy and stores it
func (s *Service) Ingest(ctx context.Context, in Inbound) (Payload, error) {
	if _, ok := s.types[in.Type]; !ok {
		return Payload{}, fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}
	if !customer.ValidID(in.CustomerID) {
		return Payload{}, ErrInvalidCustomerID
	}
	c, err := s.Customers.Resolve(in.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return Payload{}, fmt.Errorf("%w: %s", ErrCustomerNotFound, in.CustomerID)
		}
		return Payload{}, fmt.Errorf("resolving customer: %w", err)
	}
	if !c.Format.Accepts(in.ContentType) {
		return Payload{}, fmt.Errorf("%w: %s expects %s", ErrUnsupportedFormat, c.ID, c.Format)
	}
	if len(in.Body) == 0 {
		return Payload{}, ErrEmptyBody
	}

	p := Payload{
		ID:          s.newID(),
		Type:        in.Type,
		CustomerID:  in.CustomerID,
		ContentType: in.ContentType,
		ReceivedAt:  s.now().UTC(),
		SourceIP:    in.SourceIP,
		Size:        int64(len(in.Body)),
		Body:        in.Body,
	}
	p.Key = NewKey(p.Type, p.CustomerID, p.ID, p.ContentType, p.ReceivedAt).String()

	err = s.Repo.Put(ctx, Object{
		Key:         p.Key,
		Body:        p.Body,
		ContentType: p.ContentType,
		Size:        p.Size,
		Metadata:    p.Metadata(),
	})
	if err != nil {
		return Payload{}, fmt.Errorf("storing payload: %w", err)
	}
	return p, nil
}

// List returns stored payloads under the prefix built from the filter
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	if f.Type != "" && !customer.ValidID(f.Type) {
		return Page{}, ErrInvalidType
	}
	if f.CustomerID != "" && !customer.ValidID(f.CustomerID) {
		return Page{}, ErrInvalidCustomerID
	}
	if f.Date != "" && !ValidDate(f.Date) {
		return Page{}, ErrInvalidDate
	}

	res, err := s.Repo.List(ctx, Prefix(f.Type, f.CustomerID, f.Date), ClampLimit(f.Limit), f.Cursor)
	if err != nil {
		return Page{}, fmt.Errorf("listing payloads: %w", err)
	}
	page := Page{
		Webhooks:  make([]Payload, 0, len(res.Objects)),
		Cursor:    res.NextCursor,
		Truncated: res.Truncated,
	}
	for _, obj := range res.Objects {
		page.Webhooks = append(page.Webhooks, FromObject(obj))
	}
	return page, nil
}

// Download resolves id to its storage key and fetches the object
func (s *Service) Download(ctx context.Context, id, typ string) (Payload, error) {
	key, err := s.resolve(ctx, id, typ)
	if err != nil {
		return Payload{}, err
	}
	obj, err := s.Repo.Get(ctx, key)
	if err != nil {
		return Payload{}, fmt.Errorf("fetching payload: %w", err)
	}
	return FromObject(obj), nil
}

// Delete removes the object for id and returns the key that was removed
func (s *Service) Delete(ctx context.Context, id, typ string) (string, error) {
	key, err := s.resolve(ctx, id, typ)
	if err != nil {
		return "", err
	}
	if err := s.Repo.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("deleting payload: %w", err)
	}
	return key, nil
}

// resolve accepts ids in any case; keys are written with the lowercase form
func (s *Service) resolve(ctx context.Context, id, typ string) (string, error) {
	id = strings.ToLower(id)
	if !ValidID(id) {
		return "", ErrInvalidID
	}
	if typ != "" && !customer.ValidID(typ) {
		return "", ErrInvalidType
	}
	key, err := s.Repo.FindKey(ctx, Prefix(typ, "", ""), id)
	if err != nil {
		return "", fmt.Errorf("resolving webhook %s: %w", id, err)
	}
	return key, nil
}

// ValidID reports whether id is a UUID in canonical textual form
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ClampLimit bounds a page size to [1, MaxLimit]
func ClampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
