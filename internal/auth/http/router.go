package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the routes reachable without a session.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
}

// RegisterProtected attaches the routes that require a session; the
// group is expected to carry the RequireSession middleware.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/logout", h.logout)
	rg.GET("/me", h.me)
	rg.POST("/users", h.addUser)
}
