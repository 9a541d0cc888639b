package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/middleware"
	"github.com/srihar-15/EMS/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *sql.DB
	GormDB *gorm.DB
	Redis  *redis.Client
	Audit  audit.Logger
}

// NewLogger builds the process logger; production gets JSON output.
func NewLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
		cfg.SSLMode,
		cfg.MaxRetries,
	)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

func BuildApp(cfg *config.Config) (*App, error) {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := connectDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
		middleware.Metrics(),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	router.GET("/healthz", healthHandler(sqlDB, rdb))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auditLogger, err := registerModules(router, cfg, sqlDB, gormDB, rdb)
	if err != nil {
		_ = sqlDB.Close()
		_ = rdb.Close()
		return nil, err
	}

	return &App{
		Config: cfg,
		Router: router,
		DB:     sqlDB,
		GormDB: gormDB,
		Redis:  rdb,
		Audit:  auditLogger,
	}, nil
}

func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		zap.L().Warn("close redis failed", zap.Error(err))
	}
	if err := a.DB.Close(); err != nil {
		zap.L().Warn("close database failed", zap.Error(err))
	}
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func healthHandler(db pinger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "ok"}
		if err := db.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				status = http.StatusServiceUnavailable
				checks["redis"] = err.Error()
			}
		}
		c.JSON(status, gin.H{"ok": status == http.StatusOK, "checks": checks})
	}
}
