package insights

import (
	"net/http"

	"github.com/srihar-15/EMS/internal/middleware"
	"github.com/srihar-15/EMS/internal/shared/apperror"
	"github.com/srihar-15/EMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("insights.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("insights.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Workforce(c *gin.Context) {
	var req WorkforceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query", err.Error())
		return
	}

	resp, err := h.service.Workforce(c.Request.Context(), middleware.Actor(c), req.Refresh)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("workforce insight failed", zap.Int("status", httpErr.Status), zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
