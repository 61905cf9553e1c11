package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"videorec/infrastructure/config"
	"videorec/infrastructure/di"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeConsumerContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Stop consuming on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		container.Logger.Info("Shutting down consumer...")
		cancel()
	}()

	container.Logger.Info("Starting graph mutator",
		zap.String("topic", cfg.EventTopic),
		zap.String("graphBackend", cfg.GraphBackend),
	)

	if err := container.Consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Fatal("Consumer failed", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Consumer stopped")
}
