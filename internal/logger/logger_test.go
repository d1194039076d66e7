package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transaction-fraud-monitor/internal/config"
)

func loggerForLevel(level string) *slog.Logger {
	return NewLogger(&config.Config{Logging: config.LoggingConfig{Level: level}})
}

func TestNewLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		level        string
		debugEnabled bool
		warnEnabled  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"unknown", false, true}, // falls back to info
		{"DEBUG", true, true},    // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := loggerForLevel(tt.level)
			require.NotNil(t, log)
			assert.Equal(t, tt.debugEnabled, log.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tt.warnEnabled, log.Enabled(context.Background(), slog.LevelWarn))
		})
	}
}
