package backend

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/config"
	"github.com/marcelsud/webhook-vault/payload/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPayloads(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := OpenPayloads(ctx, &config.Config{StorageBackend: config.StorageBackendMemory})
		require.NoError(t, err)
		assert.IsType(t, &memory.Repository{}, repo)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := OpenPayloads(ctx, &config.Config{StorageBackend: "ftp"})
		assert.ErrorContains(t, err, "unknown STORAGE_BACKEND")
	})
}

func TestOpenAudit(t *testing.T) {
	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := OpenAudit(&config.Config{AuditBackend: config.AuditBackendRedis, RedisAddr: mr.Addr()})
		require.NoError(t, err)
		defer store.Close(context.Background())

		_, isPurger := store.(audit.Purger)
		assert.False(t, isPurger)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		_, err := OpenAudit(&config.Config{AuditBackend: config.AuditBackendRedis, RedisAddr: "127.0.0.1:1"})
		assert.ErrorContains(t, err, "opening redis audit store")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := OpenAudit(&config.Config{AuditBackend: "d1"})
		assert.ErrorContains(t, err, "unknown AUDIT_BACKEND")
	})
}

func TestIntervals(t *testing.T) {
	purge, keepWarm := Intervals(&config.Config{RetentionIntervalMinutes: 60, KeepWarmIntervalMinutes: 5})
	assert.Equal(t, time.Hour, purge)
	assert.Equal(t, 5*time.Minute, keepWarm)
}
