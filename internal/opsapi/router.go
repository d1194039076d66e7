package opsapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/transaction-fraud-monitor/internal/domain/profile"
	"github.com/transaction-fraud-monitor/internal/metrics"
	"github.com/transaction-fraud-monitor/internal/opsapi/middleware"
)

// setupRouter configures the operational routes and middleware
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	table profile.Table,
	ruleName string,
	m *metrics.Metrics,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	startedAt := time.Now().UTC()

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	// Pipeline stats snapshot
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"rule_strategy":      ruleName,
			"profile_table_size": table.Len(),
			"started_at":         startedAt,
			"uptime":             time.Since(startedAt).String(),
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
}
