package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/svoya-igra/gamebot/internal/config"
	"github.com/svoya-igra/gamebot/internal/queue"
	"github.com/svoya-igra/gamebot/internal/sender"
	"github.com/svoya-igra/gamebot/pkg/logger"
	"github.com/svoya-igra/gamebot/telegram"
)

// The sender process: executes queued outbound actions against the
// Telegram API.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting quiz bot sender...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	client, err := telegram.NewClient(cfg.BotToken, cfg.AppEnv != "production")
	if err != nil {
		logger.Fatal("Failed to initialize Telegram client", err)
	}

	outputQueue, err := queue.Connect(cfg.GetAMQPURL(), cfg.OutputQueue)
	if err != nil {
		logger.Fatal("Failed to connect to output queue", err)
	}
	defer outputQueue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Sender started", "output_queue", cfg.OutputQueue)

	s := sender.New(client)
	if err := outputQueue.Consume(ctx, s.Handle); err != nil && ctx.Err() == nil {
		logger.Fatal("Consumer stopped", err)
	}

	logger.Info("Sender stopped")
}
