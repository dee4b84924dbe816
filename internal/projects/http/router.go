package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/types", h.listTypes)
	rg.GET("/next-no/:type", h.nextNumber)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.POST("/:id/invalidate", h.invalidate)
	rg.GET("/:id/check-delete", h.checkDelete)
	rg.DELETE("/:id", h.delete)
}
