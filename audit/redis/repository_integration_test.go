//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	rc, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, rc.Addr)
	defer repo.Close(ctx)

	now := time.Now().UTC()
	for i := 0; i < 1200; i++ {
		status := 200
		if i%4 == 0 {
			status = 415
		}
		err := repo.Record(ctx, audit.Entry{
			ID:         fmt.Sprintf("entry-%04d", i),
			Timestamp:  now.Add(-time.Duration(i) * time.Millisecond),
			Method:     "POST",
			Path:       "/webhook/esl/acme",
			StatusCode: status,
			CustomerID: "acme",
		})
		require.NoError(t, err)
	}

	t.Run("scan spans batches", func(t *testing.T) {
		page, err := repo.Query(ctx, audit.Filter{StatusCode: 415, Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, 300, page.Total)
		assert.Len(t, page.Entries, 300)
		assert.Equal(t, "entry-0000", page.Entries[0].ID)
	})

	t.Run("count by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(900), counts[200])
		assert.Equal(t, int64(300), counts[415])
	})
}
