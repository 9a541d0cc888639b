package insights

import (
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc, rbacService middleware.RBACService) {
	insights := r.Group("/insights")
	insights.Use(authMiddleware)
	{
		insights.GET("/workforce",
			middleware.RateLimitByUser(0.1, 2),
			middleware.RBACAuthorize(rbacService, domain.ResourceInsights, domain.ActionRead),
			h.Workforce,
		)
	}
}
