// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the CLI, the HTTP server and the Lambda.
type Config struct {
	LogLevel slog.Level
	HTTPPort string

	AccountsTableName    string
	TransactionsQueueURL string
	RejectionsQueueURL   string
}

// Load reads a .env file when one exists, then the environment.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	level, err := ParseLevel(getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	port := getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	return &Config{
		LogLevel:             level,
		HTTPPort:             port,
		AccountsTableName:    getenv("DYNAMODB_ACCOUNTS_TABLE_NAME"),
		TransactionsQueueURL: getenv("SQS_TRANSACTIONS_QUEUE_URL"),
		RejectionsQueueURL:   getenv("SQS_REJECTIONS_QUEUE_URL"),
	}, nil
}

// RequireAccountsTable fails when no DynamoDB table is configured for account export.
func (c *Config) RequireAccountsTable() error {
	if c.AccountsTableName == "" {
		return errors.New("DYNAMODB_ACCOUNTS_TABLE_NAME environment variable not set")
	}
	return nil
}

// RequireTransactionsQueue fails when no queue is configured to drain transactions from.
func (c *Config) RequireTransactionsQueue() error {
	if c.TransactionsQueueURL == "" {
		return errors.New("SQS_TRANSACTIONS_QUEUE_URL environment variable not set")
	}
	return nil
}

// RequireRejectionsQueue fails when no queue is configured to publish rejections to.
func (c *Config) RequireRejectionsQueue() error {
	if c.RejectionsQueueURL == "" {
		return errors.New("SQS_REJECTIONS_QUEUE_URL environment variable not set")
	}
	return nil
}

// ParseLevel maps debug, info, warn or error to a slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", name)
	}
}

// NewLogger returns a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
