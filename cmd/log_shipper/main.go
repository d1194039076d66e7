package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/transaction-fraud-monitor/internal/config"
	"github.com/transaction-fraud-monitor/internal/log_shipper"
	"github.com/transaction-fraud-monitor/internal/logger"
	"github.com/transaction-fraud-monitor/internal/metrics"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/consumers"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/producers"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("log_shipper")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Log Shipper",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"search_url", cfg.Search.URL,
		"search_index", cfg.Search.Index,
	)

	if err := producers.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.TransactionTopic, cfg.Kafka.NumPartitions, cfg.Kafka.ReplicationFactor, log); err != nil {
		log.Warn("Could not ensure transaction topic", "topic", cfg.Kafka.TransactionTopic, "error", err)
	}

	m := metrics.New("log_shipper")
	ingester := log_shipper.NewSearchIngester(log, &cfg.Search)

	handler, err := log_shipper.NewHandler(log, ingester, cfg.WorkerPool.Size, m)
	if err != nil {
		log.Error("Failed to initialize shipping worker pool", "error", err)
		os.Exit(1)
	}

	// Its own consumer group, fully decoupled from the fraud pipeline
	errChan := make(chan error, 1)
	shipperConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka, cfg.Kafka.TransactionTopic, cfg.Kafka.ShipperGroup)
	if err := shipperConsumer.Subscribe(appCtx, handler.HandleMessage, errChan); err != nil {
		log.Error("Failed to subscribe to transaction feed", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serviceErr = <-errChan:
		log.Error("Service error occurred", "error", serviceErr)
	}

	cancelAppCtx()

	if err := shipperConsumer.Close(); err != nil {
		log.Error("Error closing shipper consumer", "error", err)
	}
	handler.Shutdown()

	if serviceErr != nil {
		log.Error("Log Shipper shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Log Shipper shutdown completed successfully")
}
