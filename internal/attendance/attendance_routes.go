package attendance

import (
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc, rbacService middleware.RBACService) {
	attendance := r.Group("/attendance")
	attendance.Use(authMiddleware)
	{
		attendance.POST("/checkin",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, domain.ResourceAttendance, domain.ActionCreate),
			h.CheckIn,
		)
		attendance.POST("/checkout",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, domain.ResourceAttendance, domain.ActionCreate),
			h.CheckOut,
		)
		attendance.GET("/my", middleware.RateLimitByUser(3, 10), h.ListMine)
		attendance.GET("/employee/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorizeTarget(rbacService, domain.ResourceAttendance, domain.ActionRead, "id"),
			h.ListByEmployee,
		)
	}
}
