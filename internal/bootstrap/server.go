package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/domain"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StartHTTPServer runs the server until SIGINT or SIGTERM, then shuts down
// gracefully.
func StartHTTPServer(handler http.Handler, cfg ServerConfig, auditLogger audit.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx, handler, cfg, auditLogger)
}

// Run serves until ctx is done. The shutdown is audited before connections
// are drained.
func Run(ctx context.Context, handler http.Handler, cfg ServerConfig, auditLogger audit.Logger) error {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			zap.L().Error("ListenAndServe error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	cause := "context canceled"
	if c := context.Cause(ctx); c != nil {
		cause = c.Error()
	}
	zap.L().Info("Shutdown signal received", zap.String("cause", cause))

	auditLogger.Log(context.Background(), audit.Entry{
		Actor:      domain.SystemActor,
		Action:     audit.ActionServerShutdown,
		EntityType: "server",
		Details: map[string]any{
			"cause": cause,
		},
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
		return err
	}
	zap.L().Info("Server exited gracefully")
	return nil
}
