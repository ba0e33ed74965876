package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", authMiddleware, h.Me)
	}

	// === Administration Routes (Admin Only) ===
	adminGroup := g.Group("/users")
	adminGroup.Use(authMiddleware, adminMiddleware)
	{
		adminGroup.GET("", h.List)
		adminGroup.POST("", h.Register)
		adminGroup.PATCH("/:id", h.Update)
		adminGroup.DELETE("/:id", h.Delete)
	}
}
