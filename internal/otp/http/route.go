package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the customer-facing verified booking flow. All three
// endpoints are public; the token is the gate, not a session.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/verify")
	{
		group.POST("/request", h.RequestCode)
		group.POST("/confirm", h.VerifyCode)
		group.POST("/book", h.CompleteBooking)
	}
}
