package employee

import (
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	employees := r.Group("/employees")
	employees.Use(authMiddleware)
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceEmployee, domain.ActionList),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, domain.ResourceEmployee, domain.ActionList),
			handler.GetOptions,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorizeTarget(rbacService, domain.ResourceEmployee, domain.ActionRead, "id"),
			handler.GetById,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourceEmployee, domain.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		employees.PATCH("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorizeTarget(rbacService, domain.ResourceEmployee, domain.ActionUpdate, "id"),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, domain.ResourceEmployee, domain.ActionDelete),
			handler.Delete,
		)
	}
}
