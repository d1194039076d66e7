// Package config provides configuration structures and validation for the
// fraud monitoring services. It handles environment-based configuration for
// the Kafka feeds, the fraud rule, the alert archive, the search index
// shipper, and operational parameters.
package config

import (
	"errors"
	"strings"
	"time"
)

// Rule strategy names selectable at deployment time
const (
	RuleStrategyFixed        = "fixed"
	RuleStrategyAccountLimit = "account_limit"
)

// Config holds the complete application configuration with settings for all
// components. Each field represents a major subsystem's configuration and is
// validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Rule        RuleConfig
	Table       TableConfig
	MongoDB     MongoDBConfig
	Search      SearchConfig
	Generator   GeneratorConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains the ops HTTP server configuration
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// KafkaConfig contains the feed, alert channel and DLQ configuration
type KafkaConfig struct {
	Brokers           string
	TransactionTopic  string // Transaction feed (consumed)
	ProfileTopic      string // Profile feed (consumed)
	AlertTopic        string // Alert channel (produced)
	DLQTopic          string // Topic for malformed records
	DetectorGroup     string // Consumer group of the fraud pipeline
	ProfileGroup      string // Consumer group of the profile-table writer
	ShipperGroup      string // Consumer group of the log shipper
	ArchiverGroup     string // Consumer group of the alert archiver
	NumPartitions     int    // Partitions for the transaction and alert topics
	ReplicationFactor int
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	PublishRetries    int           // Attempts per alert publish before surfacing the error
	PublishBackoff    time.Duration // Delay between alert publish attempts
}

// RuleConfig contains the fraud classification rule configuration
type RuleConfig struct {
	Strategy        string  // "fixed" or "account_limit"
	RiskThreshold   float64 // Minimum riskScore for a record to be flaggable
	AmountThreshold float64 // Fixed amount threshold (and account_limit fallback)
}

// TableConfig contains the reference table store configuration
type TableConfig struct {
	Shards int // Number of lock shards in the profile table
}

// MongoDBConfig contains the alert archive database configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// SearchConfig contains the search index (log shipping) configuration
type SearchConfig struct {
	URL             string        // Base URL of the search index
	Index           string        // Index receiving raw transaction messages
	Timeout         time.Duration // Per-request timeout
	BreakerFailures uint32        // Consecutive failures before the breaker opens
	BreakerCooldown time.Duration // Open-state duration before a retry probe
}

// GeneratorConfig contains the synthetic transaction generator configuration
type GeneratorConfig struct {
	Interval     time.Duration // Time between generated transactions
	MaxAmount    float64       // Upper bound of generated amounts
	SeedAccounts int           // Number of accounts seeded on the profile feed
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.TransactionTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_TRANSACTION_TOPIC is required")
	}
	if c.Kafka.ProfileTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_PROFILE_TOPIC is required")
	}
	if c.Kafka.AlertTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_ALERT_TOPIC is required")
	}
	if c.Kafka.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
	}
	if c.Kafka.DetectorGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_DETECTOR_GROUP is required")
	}
	if c.Kafka.ProfileGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_PROFILE_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.PublishRetries <= 0 {
		validationErrors = append(validationErrors, "KAFKA_PUBLISH_RETRIES must be greater than 0")
	}
	if c.Kafka.PublishBackoff <= 0 {
		validationErrors = append(validationErrors, "KAFKA_PUBLISH_BACKOFF must be greater than 0")
	}

	// Validate Rule config
	if c.Rule.Strategy != RuleStrategyFixed && c.Rule.Strategy != RuleStrategyAccountLimit {
		validationErrors = append(validationErrors, "RULE_STRATEGY must be 'fixed' or 'account_limit'")
	}
	if c.Rule.RiskThreshold < 0.0 || c.Rule.RiskThreshold > 1.0 {
		validationErrors = append(validationErrors, "RULE_RISK_THRESHOLD must be between 0.0 and 1.0")
	}
	if c.Rule.AmountThreshold <= 0 {
		validationErrors = append(validationErrors, "RULE_AMOUNT_THRESHOLD must be greater than 0")
	}

	// Validate Table config
	if c.Table.Shards <= 0 {
		validationErrors = append(validationErrors, "TABLE_SHARDS must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Search config
	if c.Search.URL == "" {
		validationErrors = append(validationErrors, "SEARCH_URL is required")
	}
	if c.Search.Index == "" {
		validationErrors = append(validationErrors, "SEARCH_INDEX is required")
	}
	if c.Search.Timeout <= 0 {
		validationErrors = append(validationErrors, "SEARCH_TIMEOUT must be greater than 0")
	}

	// Validate Generator config
	if c.Generator.Interval <= 0 {
		validationErrors = append(validationErrors, "GENERATOR_INTERVAL must be greater than 0")
	}
	if c.Generator.MaxAmount <= 0 {
		validationErrors = append(validationErrors, "GENERATOR_MAX_AMOUNT must be greater than 0")
	}
	if c.Generator.SeedAccounts <= 0 {
		validationErrors = append(validationErrors, "GENERATOR_SEED_ACCOUNTS must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
