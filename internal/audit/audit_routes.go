package audit

import (
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService middleware.RBACService,
) {
	logs := r.Group("/audit")
	logs.Use(authMiddleware)
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, domain.ResourceAudit, domain.ActionList), handler.GetAll)
	}
}
