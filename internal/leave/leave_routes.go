package leave

import (
	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts /leaves. Role checks for decisions run inside the
// service so that each denial is audited once.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(authMiddleware)
	{
		leaves.GET("", middleware.RateLimitByUser(3, 10), handler.GetAll)
		leaves.GET("/:id", middleware.RateLimitByUser(3, 10), handler.GetById)
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.PATCH("/:id/approve-l1", middleware.RateLimitByUser(1, 5), handler.ApproveFirstLevel)
		leaves.PATCH("/:id/approve-l2", middleware.RateLimitByUser(1, 5), handler.ApproveSecondLevel)
		leaves.PATCH("/:id/reject", middleware.RateLimitByUser(1, 5), handler.Reject)
	}
}
