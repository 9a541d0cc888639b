package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/srihar-15/EMS/internal/app"
	"github.com/srihar-15/EMS/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := app.NewLogger(cfg.App)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsumer(ctx, cfg); err != nil {
		logger.Fatal("consumer failed", zap.Error(err))
	}
}
