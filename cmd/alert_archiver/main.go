package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transaction-fraud-monitor/internal/alert_archiver"
	"github.com/transaction-fraud-monitor/internal/config"
	"github.com/transaction-fraud-monitor/internal/data/mongo"
	"github.com/transaction-fraud-monitor/internal/logger"
	"github.com/transaction-fraud-monitor/internal/metrics"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/consumers"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/producers"
	"github.com/transaction-fraud-monitor/internal/platform/persistence"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("alert_archiver")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Alert Archiver",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	archive := mongo.NewAlertRepository(log, mongoDB.Database())

	if err := producers.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic, cfg.Kafka.NumPartitions, cfg.Kafka.ReplicationFactor, log); err != nil {
		log.Warn("Could not ensure alert topic", "topic", cfg.Kafka.AlertTopic, "error", err)
	}

	m := metrics.New("alert_archiver")
	handler := alert_archiver.NewHandler(log, archive, m)

	errChan := make(chan error, 1)
	alertConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka, cfg.Kafka.AlertTopic, cfg.Kafka.ArchiverGroup)
	if err := alertConsumer.Subscribe(appCtx, handler.HandleMessage, errChan); err != nil {
		log.Error("Failed to subscribe to alert channel", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// An archive failure stops the consumer with the alert uncommitted; a
	// restart redelivers it, so crashing here loses nothing.
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serviceErr = <-errChan:
		log.Error("Service error occurred", "error", serviceErr)
	}

	cancelAppCtx()

	if err := alertConsumer.Close(); err != nil {
		log.Error("Error closing alert consumer", "error", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Alert Archiver shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Alert Archiver shutdown completed successfully")
}
