//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	pg, cleanup := SetupPostgresContainer(t, ctx)
	defer cleanup()

	repo := &Repository{DB: pg.DB}
	now := time.Now().UTC()

	entries := []audit.Entry{
		{Timestamp: now.Add(-40 * 24 * time.Hour), Method: "POST", Path: "/webhook/esl/acme", StatusCode: 200, CustomerID: "acme"},
		{Timestamp: now.Add(-2 * time.Hour), Method: "POST", Path: "/webhook/esl/acme", StatusCode: 415, CustomerID: "acme", ErrorMessage: "unsupported format"},
		{Timestamp: now.Add(-1 * time.Hour), Method: "POST", Path: "/webhook/esl/acme", StatusCode: 200, CustomerID: "acme", WebhookID: "w1"},
		{Timestamp: now, Method: "GET", Path: "/manage/webhooks", StatusCode: 200},
	}
	for _, e := range entries {
		require.NoError(t, repo.Record(ctx, e))
	}
	require.NoError(t, repo.RecordDeletion(ctx, audit.DeleteEntry{Timestamp: now, WebhookID: "w1", DeletedKey: "esl/acme/x/w1.json"}))
	require.NoError(t, repo.RecordDeletion(ctx, audit.DeleteEntry{Timestamp: now.Add(-100 * 24 * time.Hour), WebhookID: "w0", DeletedKey: "esl/acme/x/w0.json"}))

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, Migrate(pg.DB))
	})

	t.Run("query newest first within retention", func(t *testing.T) {
		page, err := repo.Query(ctx, audit.Filter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		require.Len(t, page.Entries, 3)
		assert.Equal(t, "/manage/webhooks", page.Entries[0].Path)
		assert.Empty(t, page.Entries[0].CustomerID)
		assert.Equal(t, "w1", page.Entries[1].WebhookID)
	})

	t.Run("query by customer and status", func(t *testing.T) {
		page, err := repo.Query(ctx, audit.Filter{CustomerID: "acme", StatusCode: 415, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Entries, 1)
		assert.Equal(t, "unsupported format", page.Entries[0].ErrorMessage)
	})

	t.Run("purge removes expired rows", func(t *testing.T) {
		audits, deletions, err := repo.Purge(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), audits)
		assert.Equal(t, int64(1), deletions)

		got, err := repo.Deletions(ctx, now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "w1", got[0].WebhookID)
	})

	t.Run("keep warm", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
