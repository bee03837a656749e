package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

/* Config is loaded once at startup and never mutated afterwards.
 * Values come from an optional .env file (TOML) overlaid by environment variables.
 */

type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Access control. Empty values disable the matching guard.
	AllowedIPs     string `mapstructure:"ALLOWED_IPS"`
	CustomerTokens string `mapstructure:"CUSTOMER_TOKENS"`
	S2SToken       string `mapstructure:"S2S_TOKEN"`

	CustomersFile string `mapstructure:"CUSTOMERS_FILE"`
	EnabledTypes  string `mapstructure:"ENABLED_TYPES"`

	StorageBackend    string `mapstructure:"STORAGE_BACKEND"`
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3EndpointURL     string `mapstructure:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`

	AuditBackend string `mapstructure:"AUDIT_BACKEND"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	PostgresHost               string `mapstructure:"POSTGRES_HOST"`
	PostgresPort               string `mapstructure:"POSTGRES_PORT"`
	PostgresUser               string `mapstructure:"POSTGRES_USER"`
	PostgresPassword           string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB                 string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode            string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresMaxOpenConns       int    `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	PostgresMaxIdleConns       int    `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	PostgresConnMaxLifeMinutes int    `mapstructure:"POSTGRES_CONN_MAX_LIFE_MINUTES"`

	RetentionIntervalMinutes int `mapstructure:"RETENTION_INTERVAL_MINUTES"`
	KeepWarmIntervalMinutes  int `mapstructure:"KEEPWARM_INTERVAL_MINUTES"`
}

const (
	AuditBackendRedis    = "redis"
	AuditBackendPostgres = "postgres"

	StorageBackendS3     = "s3"
	StorageBackendMemory = "memory"
)

// keys lists every setting so AutomaticEnv can resolve them during Unmarshal
// even when no config file defines them.
var keys = []string{
	"PORT", "LOG_LEVEL",
	"ALLOWED_IPS", "CUSTOMER_TOKENS", "S2S_TOKEN",
	"CUSTOMERS_FILE", "ENABLED_TYPES",
	"STORAGE_BACKEND", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT_URL", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	"AUDIT_BACKEND", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE",
	"POSTGRES_MAX_OPEN_CONNS", "POSTGRES_MAX_IDLE_CONNS", "POSTGRES_CONN_MAX_LIFE_MINUTES",
	"RETENTION_INTERVAL_MINUTES", "KEEPWARM_INTERVAL_MINUTES",
}

func GetConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CUSTOMERS_FILE", "customers.yaml")
	v.SetDefault("ENABLED_TYPES", "esl")
	v.SetDefault("STORAGE_BACKEND", StorageBackendS3)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("AUDIT_BACKEND", AuditBackendRedis)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("RETENTION_INTERVAL_MINUTES", 60*24)
	v.SetDefault("KEEPWARM_INTERVAL_MINUTES", 5)
}

// Validate checks the backend-specific settings required by the selected backends.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=%s", StorageBackendS3)
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.AuditBackend {
	case AuditBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when AUDIT_BACKEND=%s", AuditBackendRedis)
		}
	case AuditBackendPostgres:
		if err := c.ValidatePostgres(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown AUDIT_BACKEND %q", c.AuditBackend)
	}

	if _, err := c.CustomerTokenMap(); err != nil {
		return err
	}
	return nil
}

// ValidatePostgres checks that the connection settings are present
func (c *Config) ValidatePostgres() error {
	var missing []string
	if c.PostgresHost == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.PostgresUser == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.PostgresDB == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing postgres settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PostgresConnectionString builds a lib/pq URL
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSLMode)
}

func (c *Config) GetPostgresMaxOpenConns() int {
	if c.PostgresMaxOpenConns <= 0 {
		return 25
	}
	return c.PostgresMaxOpenConns
}

func (c *Config) GetPostgresMaxIdleConns() int {
	if c.PostgresMaxIdleConns <= 0 {
		return 5
	}
	return c.PostgresMaxIdleConns
}

func (c *Config) GetPostgresConnMaxLifeMinutes() int {
	if c.PostgresConnMaxLifeMinutes <= 0 {
		return 5
	}
	return c.PostgresConnMaxLifeMinutes
}

// AllowedIPList splits ALLOWED_IPS; an empty result disables the IP guard.
func (c *Config) AllowedIPList() []string {
	return splitList(c.AllowedIPs)
}

// EnabledTypeList returns the webhook types accepted on the ingestion path.
func (c *Config) EnabledTypeList() []string {
	return splitList(c.EnabledTypes)
}

// CustomerTokenMap parses CUSTOMER_TOKENS, a JSON object of customer id to token.
// An empty value yields a nil map, which disables the per-customer guard.
func (c *Config) CustomerTokenMap() (map[string]string, error) {
	raw := strings.TrimSpace(c.CustomerTokens)
	if raw == "" {
		return nil, nil
	}
	var tokens map[string]string
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return nil, fmt.Errorf("parsing CUSTOMER_TOKENS: %w", err)
	}
	return tokens, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
