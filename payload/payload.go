package payload

import (
	"strconv"
	"time"
)

/* Payload is one stored webhook body plus the context it was received in.
 * Uses value semantics as it represents data, not behavior.
 */
type Payload struct {
	ID          string
	Type        string
	CustomerID  string
	ContentType string
	ReceivedAt  time.Time
	SourceIP    string
	Size        int64
	Key         string
	Body        []byte
}

// Metadata keys attached to every stored object. They let listing and
// download recover the context without consulting the audit store.
const (
	MetaWebhookID   = "webhook-id"
	MetaType        = "type"
	MetaCustomerID  = "customer-id"
	MetaContentType = "content-type"
	MetaReceivedAt  = "received-at"
	MetaSourceIP    = "source-ip"
	MetaSize        = "size"
)

// Metadata renders the payload context as object metadata
func (p Payload) Metadata() map[string]string {
	return map[string]string{
		MetaWebhookID:   p.ID,
		MetaType:        p.Type,
		MetaCustomerID:  p.CustomerID,
		MetaContentType: p.ContentType,
		MetaReceivedAt:  p.ReceivedAt.UTC().Format(time.RFC3339Nano),
		MetaSourceIP:    p.SourceIP,
		MetaSize:        strconv.FormatInt(p.Size, 10),
	}
}

// FromObject rebuilds a Payload from a stored object. Metadata wins; fields
// it lacks are recovered from the storage key and the object attributes.
func FromObject(obj Object) Payload {
	p := Payload{
		Key:         obj.Key,
		Body:        obj.Body,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		ReceivedAt:  obj.LastModified,
	}
	if k, err := ParseKey(obj.Key); err == nil {
		p.ID = k.ID
		p.Type = k.Type
		p.CustomerID = k.CustomerID
	}

	meta := obj.Metadata
	if v := meta[MetaWebhookID]; v != "" {
		p.ID = v
	}
	if v := meta[MetaType]; v != "" {
		p.Type = v
	}
	if v := meta[MetaCustomerID]; v != "" {
		p.CustomerID = v
	}
	if v := meta[MetaContentType]; v != "" {
		p.ContentType = v
	}
	if v := meta[MetaSourceIP]; v != "" {
		p.SourceIP = v
	}
	if v := meta[MetaReceivedAt]; v != "" {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			p.ReceivedAt = ts
		}
	}
	if v := meta[MetaSize]; v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			p.Size = n
		}
	}
	if p.Size == 0 && len(obj.Body) > 0 {
		p.Size = int64(len(obj.Body))
	}
	return p
}
