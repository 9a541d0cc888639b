package performance

import (
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	reviews := r.Group("/performance")
	reviews.Use(authMiddleware)
	{
		reviews.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourcePerformance, domain.ActionCreate),
			middleware.Idempotency(rdb),
			h.Create,
		)
		reviews.GET("/employee/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorizeTarget(rbacService, domain.ResourcePerformance, domain.ActionRead, "id"),
			h.ListByEmployee,
		)
	}
}
