package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name, auto-detecting the file type
// This is useful when the configuration file extension is unknown or variable
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with explicit name and type specification
// Use this when you need to force a specific configuration format (e.g., "yaml", "json")
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base name
// This is the preferred method for loading environment-specific configurations
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment variables.
// It implements a layered approach to configuration:
// 1. Load defaults
// 2. Override with config file values (if found)
// 3. Override with environment variables
// 4. Validate the final configuration
func loadConfig(configName, configType string) (*Config, error) {
	// Initialize viper with default values
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	// Add config paths in order of priority
	v.AddConfigPath("./configs") // First check in configs directory
	v.AddConfigPath(".")         // Then check in root directory

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Printf("INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
		} else {
			fmt.Printf("WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
		}
	} else {
		fmt.Printf("INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	}

	v.AutomaticEnv() // Automatically read matching environment variables

	// Build the config struct
	config := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Kafka: KafkaConfig{
			Brokers:           v.GetString("KAFKA_BROKERS"),
			TransactionTopic:  v.GetString("KAFKA_TRANSACTION_TOPIC"),
			ProfileTopic:      v.GetString("KAFKA_PROFILE_TOPIC"),
			AlertTopic:        v.GetString("KAFKA_ALERT_TOPIC"),
			DLQTopic:          v.GetString("KAFKA_DLQ_TOPIC"),
			DetectorGroup:     v.GetString("KAFKA_DETECTOR_GROUP"),
			ProfileGroup:      v.GetString("KAFKA_PROFILE_GROUP"),
			ShipperGroup:      v.GetString("KAFKA_SHIPPER_GROUP"),
			ArchiverGroup:     v.GetString("KAFKA_ARCHIVER_GROUP"),
			NumPartitions:     v.GetInt("KAFKA_NUM_PARTITIONS"),
			ReplicationFactor: v.GetInt("KAFKA_REPLICATION_FACTOR"),
			MinBytes:          v.GetInt("KAFKA_CONSUMER_MIN_BYTES"),
			MaxBytes:          v.GetInt("KAFKA_CONSUMER_MAX_BYTES"),
			MaxWait:           v.GetDuration("KAFKA_CONSUMER_MAX_WAIT"),
			PublishRetries:    v.GetInt("KAFKA_PUBLISH_RETRIES"),
			PublishBackoff:    v.GetDuration("KAFKA_PUBLISH_BACKOFF"),
		},
		Rule: RuleConfig{
			Strategy:        v.GetString("RULE_STRATEGY"),
			RiskThreshold:   v.GetFloat64("RULE_RISK_THRESHOLD"),
			AmountThreshold: v.GetFloat64("RULE_AMOUNT_THRESHOLD"),
		},
		Table: TableConfig{
			Shards: v.GetInt("TABLE_SHARDS"),
		},
		MongoDB: MongoDBConfig{
			URI:             v.GetString("MONGO_URI"),
			Database:        v.GetString("MONGO_DATABASE"),
			Timeout:         v.GetDuration("MONGO_TIMEOUT"),
			MaxPoolSize:     uint64(v.GetInt("MONGO_MAX_POOL_SIZE")),
			MinPoolSize:     uint64(v.GetInt("MONGO_MIN_POOL_SIZE")),
			MaxConnIdleTime: v.GetDuration("MONGO_MAX_CONN_IDLE_TIME"),
		},
		Search: SearchConfig{
			URL:             v.GetString("SEARCH_URL"),
			Index:           v.GetString("SEARCH_INDEX"),
			Timeout:         v.GetDuration("SEARCH_TIMEOUT"),
			BreakerFailures: uint32(v.GetInt("SEARCH_BREAKER_FAILURES")),
			BreakerCooldown: v.GetDuration("SEARCH_BREAKER_COOLDOWN"),
		},
		Generator: GeneratorConfig{
			Interval:     v.GetDuration("GENERATOR_INTERVAL"),
			MaxAmount:    v.GetFloat64("GENERATOR_MAX_AMOUNT"),
			SeedAccounts: v.GetInt("GENERATOR_SEED_ACCOUNTS"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
	}

	// Validate the configuration
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults initializes configuration with sensible default values.
// These values are used when no configuration file or environment variables are present.
func setDefaults(v *viper.Viper) {
	// Ops HTTP server defaults
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	// Kafka defaults - configured for development environment
	// Production environments should override these with appropriate values
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TRANSACTION_TOPIC", "transaction")
	v.SetDefault("KAFKA_PROFILE_TOPIC", "account_info")
	v.SetDefault("KAFKA_ALERT_TOPIC", "suspicious_transactions")
	v.SetDefault("KAFKA_DLQ_TOPIC", "transaction_dlq")
	v.SetDefault("KAFKA_DETECTOR_GROUP", "fraud-detection-group")
	v.SetDefault("KAFKA_PROFILE_GROUP", "fraud-detection-profile-group")
	v.SetDefault("KAFKA_SHIPPER_GROUP", "transaction_monitoring_group")
	v.SetDefault("KAFKA_ARCHIVER_GROUP", "alert-archiver-group")
	v.SetDefault("KAFKA_NUM_PARTITIONS", 3)
	v.SetDefault("KAFKA_REPLICATION_FACTOR", 1)
	v.SetDefault("KAFKA_CONSUMER_MIN_BYTES", 10240)
	v.SetDefault("KAFKA_CONSUMER_MAX_BYTES", 10485760)
	v.SetDefault("KAFKA_CONSUMER_MAX_WAIT", time.Second)
	v.SetDefault("KAFKA_PUBLISH_RETRIES", 5)
	v.SetDefault("KAFKA_PUBLISH_BACKOFF", 500*time.Millisecond)

	// Fraud rule defaults - the fixed-threshold variant observed in production
	v.SetDefault("RULE_STRATEGY", RuleStrategyFixed)
	v.SetDefault("RULE_RISK_THRESHOLD", 0.7)
	v.SetDefault("RULE_AMOUNT_THRESHOLD", 9000.0)

	// Profile table defaults
	v.SetDefault("TABLE_SHARDS", 32)

	// MongoDB defaults for the alert archive
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "fraud_monitor")
	v.SetDefault("MONGO_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGO_MAX_POOL_SIZE", 100)
	v.SetDefault("MONGO_MIN_POOL_SIZE", 10)
	v.SetDefault("MONGO_MAX_CONN_IDLE_TIME", 30*time.Minute)

	// Search index defaults for the log shipper
	v.SetDefault("SEARCH_URL", "http://localhost:9200")
	v.SetDefault("SEARCH_INDEX", "transactions")
	v.SetDefault("SEARCH_TIMEOUT", 5*time.Second)
	v.SetDefault("SEARCH_BREAKER_FAILURES", 5)
	v.SetDefault("SEARCH_BREAKER_COOLDOWN", 30*time.Second)

	// Generator defaults - one transaction per second
	v.SetDefault("GENERATOR_INTERVAL", time.Second)
	v.SetDefault("GENERATOR_MAX_AMOUNT", 10000.0)
	v.SetDefault("GENERATOR_SEED_ACCOUNTS", 100)

	// Logging defaults - 'info' provides good balance of information vs noise
	v.SetDefault("LOG_LEVEL", "info")

	// Application defaults - development-friendly baseline configuration
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "transaction-fraud-monitor")

	// Worker Pool defaults - suitable for most applications
	v.SetDefault("WORKER_POOL_SIZE", 10)
}
