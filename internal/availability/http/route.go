package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/availability")

	// === Public Routes (slot picker + calendar background) ===
	{
		group.GET("/slots", h.Slots)
		group.GET("/overlay", h.Overlay)
	}

	// === Administration Routes (Admin Only) ===
	adminGroup := group.Group("")
	adminGroup.Use(authMiddleware, adminMiddleware)
	{
		adminGroup.GET("/week", h.Week)
		adminGroup.PUT("/week", h.UpdateDay)
	}
}
