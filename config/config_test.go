package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("S2S_TOKEN", "s2s-secret")
	t.Setenv("AUDIT_BACKEND", "postgres")
	t.Setenv("REDIS_DB", "3")

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s2s-secret", cfg.S2SToken)
	assert.Equal(t, AuditBackendPostgres, cfg.AuditBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "esl", cfg.EnabledTypes)
}

func TestAllowedIPList(t *testing.T) {
	t.Run("empty disables", func(t *testing.T) {
		c := Config{}
		assert.Empty(t, c.AllowedIPList())
	})
	t.Run("trims and skips blanks", func(t *testing.T) {
		c := Config{AllowedIPs: " 10.0.0.1, ,192.168.1.2 ,"}
		assert.Equal(t, []string{"10.0.0.1", "192.168.1.2"}, c.AllowedIPList())
	})
}

func TestCustomerTokenMap(t *testing.T) {
	t.Run("empty is nil", func(t *testing.T) {
		c := Config{CustomerTokens: "  "}
		tokens, err := c.CustomerTokenMap()
		require.NoError(t, err)
		assert.Nil(t, tokens)
	})
	t.Run("valid json", func(t *testing.T) {
		c := Config{CustomerTokens: `{"mpl-zlin":"abc","acme":"xyz"}`}
		tokens, err := c.CustomerTokenMap()
		require.NoError(t, err)
		assert.Equal(t, "abc", tokens["mpl-zlin"])
		assert.Len(t, tokens, 2)
	})
	t.Run("invalid json", func(t *testing.T) {
		c := Config{CustomerTokens: `{"mpl-zlin":`}
		_, err := c.CustomerTokenMap()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing CUSTOMER_TOKENS")
	})
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			StorageBackend: StorageBackendMemory,
			AuditBackend:   AuditBackendRedis,
			RedisAddr:      "localhost:6379",
		}
	}

	t.Run("valid", func(t *testing.T) {
		c := base()
		assert.NoError(t, c.Validate())
	})
	t.Run("s3 needs bucket", func(t *testing.T) {
		c := base()
		c.StorageBackend = StorageBackendS3
		assert.ErrorContains(t, c.Validate(), "S3_BUCKET")
	})
	t.Run("postgres needs settings", func(t *testing.T) {
		c := base()
		c.AuditBackend = AuditBackendPostgres
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POSTGRES_HOST")
		assert.Contains(t, err.Error(), "POSTGRES_DB")
	})
	t.Run("unknown audit backend", func(t *testing.T) {
		c := base()
		c.AuditBackend = "d1"
		assert.ErrorContains(t, c.Validate(), "unknown AUDIT_BACKEND")
	})
}

func TestPostgresConnectionString(t *testing.T) {
	c := Config{
		PostgresHost:     "db",
		PostgresPort:     "5432",
		PostgresUser:     "vault",
		PostgresPassword: "secret",
		PostgresDB:       "audit",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://vault:secret@db:5432/audit?sslmode=disable", c.PostgresConnectionString())
	assert.Equal(t, 25, c.GetPostgresMaxOpenConns())
	assert.Equal(t, 5, c.GetPostgresMaxIdleConns())
}
