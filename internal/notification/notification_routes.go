package notification

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	notifications := r.Group("/notifications")
	notifications.Use(authMiddleware)
	{
		notifications.GET("/my", handler.GetMine)
		notifications.DELETE("/my", handler.ClearMine)
		notifications.PATCH("/:id/read", handler.MarkRead)
	}
}
