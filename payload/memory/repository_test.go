package memory_test

import (
	"context"
	"testing"

	"github.com/marcelsud/webhook-vault/payload"
	"github.com/marcelsud/webhook-vault/payload/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func put(t *testing.T, repo *memory.Repository, key string) {
	t.Helper()
	err := repo.Put(context.Background(), payload.Object{
		Key:         key,
		Body:        []byte("body of " + key),
		ContentType: "text/plain",
		Metadata:    map[string]string{payload.MetaWebhookID: "x"},
	})
	require.NoError(t, err)
}

func TestRepository_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	key := "esl/acme/2026-10-15/9b2f3c4e-1d2a-4b5c-8d9e-0f1a2b3c4d5e.txt"

	put(t, repo, key)

	obj, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("body of "+key), obj.Body)
	assert.Equal(t, int64(len(obj.Body)), obj.Size)
	assert.False(t, obj.LastModified.IsZero())

	require.NoError(t, repo.Delete(ctx, key))
	_, err = repo.Get(ctx, key)
	assert.ErrorIs(t, err, payload.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, key), payload.ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	put(t, repo, "esl/acme/2026-10-14/a.json")
	put(t, repo, "esl/acme/2026-10-15/b.json")
	put(t, repo, "esl/acme/2026-10-15/c.json")
	put(t, repo, "esl/zeta/2026-10-15/d.json")

	t.Run("prefix", func(t *testing.T) {
		page, err := repo.List(ctx, "esl/acme/2026-10-15/", 10, "")
		require.NoError(t, err)
		require.Len(t, page.Objects, 2)
		assert.False(t, page.Truncated)
		assert.Nil(t, page.Objects[0].Body)
	})

	t.Run("paginates with cursor", func(t *testing.T) {
		first, err := repo.List(ctx, "esl/", 3, "")
		require.NoError(t, err)
		require.Len(t, first.Objects, 3)
		assert.True(t, first.Truncated)
		assert.Equal(t, "esl/acme/2026-10-15/c.json", first.NextCursor)

		second, err := repo.List(ctx, "esl/", 3, first.NextCursor)
		require.NoError(t, err)
		require.Len(t, second.Objects, 1)
		assert.Equal(t, "esl/zeta/2026-10-15/d.json", second.Objects[0].Key)
		assert.False(t, second.Truncated)
		assert.Empty(t, second.NextCursor)
	})
}

func TestRepository_FindKey(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	put(t, repo, "esl/acme/2026-10-15/11111111-1111-4111-8111-111111111111.json")
	put(t, repo, "other/acme/2026-10-15/22222222-2222-4222-8222-222222222222.csv")

	key, err := repo.FindKey(ctx, "", "22222222-2222-4222-8222-222222222222")
	require.NoError(t, err)
	assert.Equal(t, "other/acme/2026-10-15/22222222-2222-4222-8222-222222222222.csv", key)

	_, err = repo.FindKey(ctx, "esl/", "22222222-2222-4222-8222-222222222222")
	assert.ErrorIs(t, err, payload.ErrNotFound)
}
