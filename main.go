package main

import (
	"context"
	"examwatch/cmd"
	"examwatch/config"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables take precedence
	envErr := godotenv.Load()

	// Load config from environment variables
	cfg := config.Load()

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to load .env", zap.Error(envErr))
	}
	logger.Info("starting examwatch",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := cmd.Execute(ctx, logger, cfg); err != nil {
		logger.Error("command failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

// newLogger writes to the configured log file since the dashboard owns the
// terminal.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
		zcfg.ErrorOutputPaths = []string{cfg.File}
	}
	return zcfg.Build()
}
