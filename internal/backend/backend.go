package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/audit/postgres"
	"github.com/marcelsud/webhook-vault/audit/redis"
	"github.com/marcelsud/webhook-vault/config"
	"github.com/marcelsud/webhook-vault/payload"
	"github.com/marcelsud/webhook-vault/payload/memory"
	"github.com/marcelsud/webhook-vault/payload/s3"
)

/* The backend package opens the stores selected by configuration.
 * Binaries share it so api and cli see the same wiring.
 */

// AuditStore is an open audit sink and its lifecycle
type AuditStore interface {
	audit.Sink
	audit.DeletionReader
	Close(ctx context.Context) error
}

// OpenAudit connects to the configured audit backend. The postgres schema is
// migrated before the sink is returned.
func OpenAudit(cfg *config.Config) (AuditStore, error) {
	switch cfg.AuditBackend {
	case config.AuditBackendRedis:
		repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis audit store: %w", err)
		}
		return repo, nil
	case config.AuditBackendPostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.PostgresConnectionString(),
			cfg.GetPostgresMaxOpenConns(),
			cfg.GetPostgresMaxIdleConns(),
			cfg.GetPostgresConnMaxLifeMinutes(),
		)
		if err != nil {
			return nil, fmt.Errorf("opening postgres audit store: %w", err)
		}
		if err := postgres.Migrate(repo.DB); err != nil {
			_ = repo.Close(context.Background())
			return nil, fmt.Errorf("migrating audit schema: %w", err)
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unknown AUDIT_BACKEND %q", cfg.AuditBackend)
}

// OpenPayloads returns the configured blob store
func OpenPayloads(ctx context.Context, cfg *config.Config) (payload.Repository, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		client, err := s3.NewClient(ctx, s3.Options{
			Region:          cfg.S3Region,
			EndpointURL:     cfg.S3EndpointURL,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("creating s3 client: %w", err)
		}
		return s3.NewRepository(client, cfg.S3Bucket), nil
	case config.StorageBackendMemory:
		return memory.NewRepository(), nil
	}
	return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
}

// Intervals returns the retention and keep-warm periods of the janitor
func Intervals(cfg *config.Config) (time.Duration, time.Duration) {
	return time.Duration(cfg.RetentionIntervalMinutes) * time.Minute,
		time.Duration(cfg.KeepWarmIntervalMinutes) * time.Minute
}
