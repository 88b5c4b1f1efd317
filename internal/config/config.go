package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Telegram
	BotToken string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// RabbitMQ
	RabbitHost     string
	RabbitPort     string
	RabbitUser     string
	RabbitPassword string
	InputQueue     string
	OutputQueue    string

	// Application
	AppEnv   string
	LogLevel string

	// Poller
	PollTimeoutSeconds int

	// Game
	ThemesPerRound int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizbot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RabbitHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitPassword: getEnv("RABBITMQ_PASSWORD", "guest"),
		InputQueue:     getEnv("RABBITMQ_INPUT_QUEUE", "input_queue"),
		OutputQueue:    getEnv("RABBITMQ_OUTPUT_QUEUE", "output_queue"),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		PollTimeoutSeconds: getEnvInt("POLL_TIMEOUT_SECONDS", 30),

		ThemesPerRound: getEnvInt("THEMES_PER_ROUND", 3),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.ThemesPerRound <= 0 {
		return fmt.Errorf("THEMES_PER_ROUND must be positive")
	}
	if c.PollTimeoutSeconds <= 0 {
		return fmt.Errorf("POLL_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetAMQPURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		c.RabbitUser, c.RabbitPassword, c.RabbitHost, c.RabbitPort,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
