package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/svoya-igra/gamebot/internal/config"
	"github.com/svoya-igra/gamebot/internal/database"
	"github.com/svoya-igra/gamebot/internal/game"
	"github.com/svoya-igra/gamebot/internal/handlers"
	"github.com/svoya-igra/gamebot/internal/queue"
	"github.com/svoya-igra/gamebot/internal/repositories"
	"github.com/svoya-igra/gamebot/pkg/logger"
	"github.com/svoya-igra/gamebot/telegram"
)

// The dispatcher process: consumes raw updates from the input queue, drives
// the game state machine, and emits outbound actions to the output queue.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting quiz bot dispatcher...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed starter themes
	if err := database.SeedThemes(db); err != nil {
		logger.Warn("Failed to seed themes", "error", err)
	}

	// The API client is used directly only for the master's judgment prompt
	client, err := telegram.NewClient(cfg.BotToken, cfg.AppEnv != "production")
	if err != nil {
		logger.Fatal("Failed to initialize Telegram client", err)
	}

	inputQueue, err := queue.Connect(cfg.GetAMQPURL(), cfg.InputQueue)
	if err != nil {
		logger.Fatal("Failed to connect to input queue", err)
	}
	defer inputQueue.Close()

	outputQueue, err := queue.Connect(cfg.GetAMQPURL(), cfg.OutputQueue)
	if err != nil {
		logger.Fatal("Failed to connect to output queue", err)
	}
	defer outputQueue.Close()

	engine := game.NewEngine(repositories.NewGameRepository(db))
	manager := handlers.NewManager(engine, queue.NewActionPublisher(outputQueue), client, cfg.ThemesPerRound)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Dispatcher started", "env", cfg.AppEnv, "input_queue", cfg.InputQueue)

	err = inputQueue.Consume(ctx, func(body []byte) error {
		var update tgbotapi.Update
		if err := json.Unmarshal(body, &update); err != nil {
			logger.Error("Dropping undecodable update", "error", err)
			return nil
		}
		return manager.HandleUpdate(update)
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatal("Consumer stopped", err)
	}

	logger.Info("Dispatcher stopped")
}
