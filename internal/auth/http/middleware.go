package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hlzx-oa/project-registry/internal/auth/domain"
)

// SessionResolver resolves a cookie value to a live session.
type SessionResolver interface {
	Get(ctx context.Context, sid string) (*domain.Session, error)
}

// RequireSession gates a route group behind a valid login session.
// The resolved user is stored in the gin context under "username",
// "realname", "department" and "user_id" for downstream handlers.
func RequireSession(store SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not logged in"})
			return
		}

		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "session expired"})
			return
		}

		c.Set("session_id", sid)
		c.Set("user_id", sess.UserID)
		c.Set("username", sess.Username)
		c.Set("realname", sess.RealName)
		c.Set("department", sess.Department)

		c.Next()
	}
}
