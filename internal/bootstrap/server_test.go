package bootstrap_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	auditMock "github.com/srihar-15/EMS/internal/audit/mock"
	"github.com/srihar-15/EMS/internal/bootstrap"
	"github.com/srihar-15/EMS/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRun_AuditsShutdown(t *testing.T) {
	auditLogger := auditMock.NewMockLogger(gomock.NewController(t))
	auditLogger.EXPECT().Log(gomock.Any(), gomock.Cond(func(x any) bool {
		e, ok := x.(audit.Entry)
		return ok && e.Action == audit.ActionServerShutdown && e.Actor == domain.SystemActor
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- bootstrap.Run(ctx, http.NotFoundHandler(), bootstrap.ServerConfig{
			Port:         "0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		}, auditLogger)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	auditLogger := auditMock.NewMockLogger(gomock.NewController(t))

	err := bootstrap.Run(context.Background(), http.NotFoundHandler(), bootstrap.ServerConfig{Port: "not-a-port"}, auditLogger)
	assert.Error(t, err)
}
