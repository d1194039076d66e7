package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transaction-fraud-monitor/internal/config"
	"github.com/transaction-fraud-monitor/internal/data/memory"
	"github.com/transaction-fraud-monitor/internal/fraud_detector/components"
	"github.com/transaction-fraud-monitor/internal/fraud_detector/consumer"
	"github.com/transaction-fraud-monitor/internal/logger"
	"github.com/transaction-fraud-monitor/internal/metrics"
	"github.com/transaction-fraud-monitor/internal/opsapi"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/consumers"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/producers"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("fraud_detector")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Fraud Detector",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"rule_strategy", cfg.Rule.Strategy,
	)

	// Build the classification rule; an unknown strategy is fatal at startup
	rule, err := components.NewRuleEvaluator(&cfg.Rule)
	if err != nil {
		log.Error("Failed to build rule evaluator", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline metrics and the reference table store
	m := metrics.New("fraud_monitor")
	table := memory.NewProfileTable(log, cfg.Table.Shards)
	enricher := components.NewEnricher(table, log)

	// Provision the consumed feeds. Failures here are logged, not fatal: the
	// feeds may be provisioned externally and already exist.
	if err := producers.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.TransactionTopic, cfg.Kafka.NumPartitions, cfg.Kafka.ReplicationFactor, log); err != nil {
		log.Warn("Could not ensure transaction topic", "topic", cfg.Kafka.TransactionTopic, "error", err)
	}
	if err := producers.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.ProfileTopic, 1, cfg.Kafka.ReplicationFactor, log); err != nil {
		log.Warn("Could not ensure profile topic", "topic", cfg.Kafka.ProfileTopic, "error", err)
	}

	// Initialize the alert channel producer
	alertProducer, err := producers.NewAlertProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize alert Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer is nil when DLQTopic is not configured; keep the interface
	// nil in that case so the handler skips dead-lettering entirely
	var dlq producers.DeadLetterPublisher
	if dlqProducer != nil {
		dlq = dlqProducer
	}

	// Feed handlers
	profileHandler := consumer.NewProfileUpdateHandler(log, table, m)
	transactionHandler := consumer.NewTransactionEventHandler(log, enricher, rule, alertProducer, dlq, m)

	// One sequential consumer per feed; the reference table is the only
	// state shared between the two flows.
	profileConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka, cfg.Kafka.ProfileTopic, cfg.Kafka.ProfileGroup)
	transactionConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka, cfg.Kafka.TransactionTopic, cfg.Kafka.DetectorGroup)

	// Create error channel for service errors. A consumer reports here when
	// a record cannot be processed; the service then shuts down with the
	// failed offset uncommitted so a restart redelivers it.
	errChan := make(chan error, 3)

	if err := profileConsumer.Subscribe(appCtx, profileHandler.HandleMessage, errChan); err != nil {
		log.Error("Failed to subscribe to profile feed", "error", err)
		os.Exit(1)
	}
	if err := transactionConsumer.Subscribe(appCtx, transactionHandler.HandleMessage, errChan); err != nil {
		log.Error("Failed to subscribe to transaction feed", "error", err)
		os.Exit(1)
	}

	// Start the ops HTTP server
	opsServer := opsapi.NewServer(log, cfg, table, rule.Name(), m)
	go func() {
		log.Info("Starting ops HTTP server", "port", cfg.Server.Port)
		if err := opsServer.Start(); err != nil {
			errChan <- fmt.Errorf("ops server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context: consumers stop fetching, in-flight
	// records finish classification and publish before the loops exit.
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	if err := opsServer.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping ops HTTP server", "error", err)
	}

	if err := transactionConsumer.Close(); err != nil {
		log.Error("Error closing transaction consumer", "error", err)
	}
	if err := profileConsumer.Close(); err != nil {
		log.Error("Error closing profile consumer", "error", err)
	}

	if err := alertProducer.Close(); err != nil {
		log.Error("Error closing alert producer", "error", err)
	}
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err := dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Give async log flushes a moment before exit
	time.Sleep(100 * time.Millisecond)

	if serviceErr != nil {
		log.Error("Fraud Detector shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Fraud Detector shutdown completed successfully")
}
