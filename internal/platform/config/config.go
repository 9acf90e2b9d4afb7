package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string

	JWTSecret string
	JWTIssuer string
	RateLimit string // ulule formatted rate, e.g. "100-M"

	// Per-account locking
	RedisURL      string
	LockTimeout   time.Duration
	LockTTL       time.Duration
	DBLockTimeout time.Duration

	// Outbox relay
	KafkaBrokers    []string
	KafkaTopic      string
	OutboxSchedule  string
	OutboxBatchSize int

	EntryNumberPrefix string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "ledger-core")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOCK_TIMEOUT", "5s")
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("DB_LOCK_TIMEOUT", "5s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger.entry.posted")
	v.SetDefault("OUTBOX_SCHEDULE", "@every 5s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("ENTRY_NUMBER_PREFIX", "JE")

	// Actual environment variables override .env values and defaults.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       v.GetString("PGSQL_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		MigrationsPath:    v.GetString("MIGRATIONS_PATH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		RateLimit:         v.GetString("RATE_LIMIT"),
		RedisURL:          v.GetString("REDIS_URL"),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		OutboxSchedule:    v.GetString("OUTBOX_SCHEDULE"),
		OutboxBatchSize:   v.GetInt("OUTBOX_BATCH_SIZE"),
		EntryNumberPrefix: v.GetString("ENTRY_NUMBER_PREFIX"),
	}

	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	var err error
	if cfg.LockTimeout, err = parseDuration(v, "LOCK_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = parseDuration(v, "LOCK_TTL"); err != nil {
		return nil, err
	}
	if cfg.DBLockTimeout, err = parseDuration(v, "DB_LOCK_TIMEOUT"); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		log.Println("Warning: STORE_DRIVER=memory, ledger data is not persisted.")
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.OutboxBatchSize <= 0 {
		log.Printf("Warning: Invalid value for OUTBOX_BATCH_SIZE (%d). Defaulting to 100.\n", cfg.OutboxBatchSize)
		cfg.OutboxBatchSize = 100
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
