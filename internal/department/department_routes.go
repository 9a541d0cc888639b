package department

import (
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService middleware.RBACService,
) {
	budgets := r.Group("/budgets")
	budgets.Use(authMiddleware)
	{
		budgets.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceBudget, domain.ActionList),
			h.GetAll,
		)
		budgets.PUT("/:department",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourceBudget, domain.ActionUpdate),
			h.Update,
		)
	}
}
