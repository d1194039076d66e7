package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfigWithName("does-not-exist")
	require.NoError(t, err)

	assert.Equal(t, "transaction", cfg.Kafka.TransactionTopic)
	assert.Equal(t, "account_info", cfg.Kafka.ProfileTopic)
	assert.Equal(t, "suspicious_transactions", cfg.Kafka.AlertTopic)
	assert.Equal(t, "transaction_dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, 3, cfg.Kafka.NumPartitions)
	assert.Equal(t, 5, cfg.Kafka.PublishRetries)

	assert.Equal(t, RuleStrategyFixed, cfg.Rule.Strategy)
	assert.Equal(t, 0.7, cfg.Rule.RiskThreshold)
	assert.Equal(t, 9000.0, cfg.Rule.AmountThreshold)

	assert.Equal(t, 32, cfg.Table.Shards)
	assert.Equal(t, time.Second, cfg.Generator.Interval)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("RULE_STRATEGY", RuleStrategyAccountLimit)
	t.Setenv("RULE_AMOUNT_THRESHOLD", "12000")
	t.Setenv("KAFKA_ALERT_TOPIC", "fraud_alerts")
	t.Setenv("TABLE_SHARDS", "64")

	cfg, err := LoadConfigWithName("does-not-exist")
	require.NoError(t, err)

	assert.Equal(t, RuleStrategyAccountLimit, cfg.Rule.Strategy)
	assert.Equal(t, 12000.0, cfg.Rule.AmountThreshold)
	assert.Equal(t, "fraud_alerts", cfg.Kafka.AlertTopic)
	assert.Equal(t, 64, cfg.Table.Shards)
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		envKey  string
		envVal  string
		wantMsg string
	}{
		{
			name:    "unknown rule strategy",
			envKey:  "RULE_STRATEGY",
			envVal:  "percentile",
			wantMsg: "RULE_STRATEGY must be 'fixed' or 'account_limit'",
		},
		{
			name:    "risk threshold out of range",
			envKey:  "RULE_RISK_THRESHOLD",
			envVal:  "1.5",
			wantMsg: "RULE_RISK_THRESHOLD must be between 0.0 and 1.0",
		},
		{
			name:    "zero server port",
			envKey:  "SERVER_PORT",
			envVal:  "0",
			wantMsg: "SERVER_PORT must be greater than 0",
		},
		{
			name:    "zero shards",
			envKey:  "TABLE_SHARDS",
			envVal:  "0",
			wantMsg: "TABLE_SHARDS must be greater than 0",
		},
		{
			name:    "zero publish retries",
			envKey:  "KAFKA_PUBLISH_RETRIES",
			envVal:  "0",
			wantMsg: "KAFKA_PUBLISH_RETRIES must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := LoadConfigWithName("does-not-exist")
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
