package payload_test

import (
	"testing"
	"time"

	"github.com/marcelsud/webhook-vault/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"application/json", "json"},
		{"application/json; charset=utf-8", "json"},
		{"application/xml", "xml"},
		{"text/xml", "xml"},
		{"text/csv", "csv"},
		{"TEXT/PLAIN", "txt"},
		{"application/x-www-form-urlencoded", "form"},
		{"multipart/form-data; boundary=xyz", "form"},
		{"application/pdf", "bin"},
		{"", "bin"},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, payload.Extension(tt.contentType))
		})
	}
}

func TestNewKey(t *testing.T) {
	// 23:30 in UTC-3 is already the next day in UTC
	receivedAt := time.Date(2026, 10, 14, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	k := payload.NewKey("esl", "mpl-zlin", "9b2f3c4e-1d2a-4b5c-8d9e-0f1a2b3c4d5e", "text/csv", receivedAt)

	assert.Equal(t, "esl/mpl-zlin/2026-10-15/9b2f3c4e-1d2a-4b5c-8d9e-0f1a2b3c4d5e.csv", k.String())
}

func TestParseKey(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		k, err := payload.ParseKey("esl/acme/2026-10-15/9b2f3c4e-1d2a-4b5c-8d9e-0f1a2b3c4d5e.json")
		require.NoError(t, err)
		assert.Equal(t, payload.Key{
			Type:       "esl",
			CustomerID: "acme",
			Date:       "2026-10-15",
			ID:         "9b2f3c4e-1d2a-4b5c-8d9e-0f1a2b3c4d5e",
			Ext:        "json",
		}, k)
	})
	t.Run("wrong depth", func(t *testing.T) {
		_, err := payload.ParseKey("esl/acme/file.json")
		assert.Error(t, err)
	})
	t.Run("no extension", func(t *testing.T) {
		_, err := payload.ParseKey("esl/acme/2026-10-15/abc")
		assert.Error(t, err)
	})
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "", payload.Prefix("", "", ""))
	assert.Equal(t, "esl/", payload.Prefix("esl", "", ""))
	assert.Equal(t, "esl/acme/", payload.Prefix("esl", "acme", ""))
	assert.Equal(t, "esl/acme/2026-10-15/", payload.Prefix("esl", "acme", "2026-10-15"))

	// a segment without its parent is ignored
	assert.Equal(t, "", payload.Prefix("", "acme", "2026-10-15"))
	assert.Equal(t, "esl/", payload.Prefix("esl", "", "2026-10-15"))
}

func TestMatchesID(t *testing.T) {
	id := "9b2f3c4e-1d2a-4b5c-8d9e-0f1a2b3c4d5e"
	assert.True(t, payload.MatchesID("esl/acme/2026-10-15/"+id+".json", id))
	assert.False(t, payload.MatchesID("esl/"+id+"/2026-10-15/other.json", id))
	assert.False(t, payload.MatchesID("esl/acme/2026-10-15/"+id+"0.json", id))
}

func TestFromObject(t *testing.T) {
	id := "9b2f3c4e-1d2a-4b5c-8d9e-0f1a2b3c4d5e"
	modified := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("metadata wins", func(t *testing.T) {
		src := payload.Payload{
			ID:          id,
			Type:        "esl",
			CustomerID:  "outlet-7",
			ContentType: "application/json",
			ReceivedAt:  time.Date(2026, 10, 15, 11, 59, 58, 0, time.UTC),
			SourceIP:    "203.0.113.7",
			Size:        42,
		}
		p := payload.FromObject(payload.Object{
			Key:          "esl/outlet-7/2026-10-15/" + id + ".json",
			LastModified: modified,
			Metadata:     src.Metadata(),
		})
		assert.Equal(t, src.ReceivedAt, p.ReceivedAt)
		assert.Equal(t, "203.0.113.7", p.SourceIP)
		assert.Equal(t, int64(42), p.Size)
		assert.Equal(t, "outlet-7", p.CustomerID)
	})

	t.Run("falls back to key", func(t *testing.T) {
		p := payload.FromObject(payload.Object{
			Key:          "esl/acme/2026-10-15/" + id + ".csv",
			ContentType:  "text/csv",
			Size:         9,
			LastModified: modified,
		})
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "esl", p.Type)
		assert.Equal(t, "acme", p.CustomerID)
		assert.Equal(t, "text/csv", p.ContentType)
		assert.Equal(t, int64(9), p.Size)
		assert.Equal(t, modified, p.ReceivedAt)
	})
}
