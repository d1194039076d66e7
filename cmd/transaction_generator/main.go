package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/transaction-fraud-monitor/internal/config"
	"github.com/transaction-fraud-monitor/internal/generator"
	"github.com/transaction-fraud-monitor/internal/logger"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/producers"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("transaction_generator")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Transaction Generator",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Transaction feed producer (ensures the topic exists)
	transactionProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.TransactionTopic, cfg.Kafka.NumPartitions)
	if err != nil {
		log.Error("Failed to initialize transaction feed producer", "error", err)
		os.Exit(1)
	}

	// Profile feed producer; the profile feed is a single ordered partition
	profileProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.ProfileTopic, 1)
	if err != nil {
		log.Error("Failed to initialize profile feed producer", "error", err)
		os.Exit(1)
	}

	// Seed initial account risk metadata before the stream starts
	if err := generator.SeedProfiles(appCtx, log, profileProducer, cfg.Generator.SeedAccounts); err != nil {
		log.Error("Failed to seed account profiles", "error", err)
		os.Exit(1)
	}

	gen := generator.New(log, transactionProducer, &cfg.Generator)

	done := make(chan struct{})
	go func() {
		gen.Run(appCtx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info("Shutdown signal received")

	cancelAppCtx()
	<-done

	if err := transactionProducer.Close(); err != nil {
		log.Error("Error closing transaction feed producer", "error", err)
	}
	if err := profileProducer.Close(); err != nil {
		log.Error("Error closing profile feed producer", "error", err)
	}

	log.Info("Transaction Generator shutdown completed successfully")
}
