package main

import (
	"github.com/srihar-15/EMS/internal/app"
	"github.com/srihar-15/EMS/internal/bootstrap"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/shared/apperror"

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

	apperror.Init()

	// build dependency + routes
	application, err := app.BuildApp(cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer application.Close()

	if err := bootstrap.StartHTTPServer(
		application.Router,
		bootstrap.ServerConfig{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		application.Audit,
	); err != nil {
		logger.Error("http server stopped", zap.Error(err))
	}
}
