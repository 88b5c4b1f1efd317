package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/svoya-igra/gamebot/internal/config"
	"github.com/svoya-igra/gamebot/internal/poller"
	"github.com/svoya-igra/gamebot/internal/queue"
	"github.com/svoya-igra/gamebot/pkg/logger"
	"github.com/svoya-igra/gamebot/telegram"
)

// The poller process: drains Telegram's update feed into the input queue.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting quiz bot poller...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	client, err := telegram.NewClient(cfg.BotToken, cfg.AppEnv != "production")
	if err != nil {
		logger.Fatal("Failed to initialize Telegram client", err)
	}

	inputQueue, err := queue.Connect(cfg.GetAMQPURL(), cfg.InputQueue)
	if err != nil {
		logger.Fatal("Failed to connect to input queue", err)
	}
	defer inputQueue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Poller started", "timeout_seconds", cfg.PollTimeoutSeconds)

	p := poller.New(client, inputQueue, cfg.PollTimeoutSeconds)
	if err := p.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("Poller stopped", err)
	}

	logger.Info("Poller stopped")
}
