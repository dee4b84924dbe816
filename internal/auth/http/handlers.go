package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hlzx-oa/project-registry/internal/auth/domain"
	"github.com/hlzx-oa/project-registry/internal/auth/service"
)

// Handler serves login, logout and user management.
type Handler struct {
	svc        *service.AuthService
	cookieName string
	ttl        time.Duration
}

func New(svc *service.AuthService, cookieName string, ttl time.Duration) *Handler {
	return &Handler{svc: svc, cookieName: cookieName, ttl: ttl}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "username and password are required"})
		return
	}

	sid, sess, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid username or password"})
		case errors.Is(err, domain.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}

	c.SetCookie(h.cookieName, sid, int(h.ttl.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": sess})
}

func (h *Handler) logout(c *gin.Context) {
	if sid := c.GetString("session_id"); sid != "" {
		if err := h.svc.Logout(c.Request.Context(), sid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "logged out"})
}

// me echoes the session back so the UI can restore its state.
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": gin.H{
		"user_id":    c.GetInt64("user_id"),
		"username":   c.GetString("username"),
		"realname":   c.GetString("realname"),
		"department": c.GetString("department"),
	}})
}

type addUserReq struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RealName   string `json:"realname"`
	Department string `json:"department"`
}

// addUser creates an account. Only the admin account may call it.
func (h *Handler) addUser(c *gin.Context) {
	if c.GetString("username") != domain.AdminUsername {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "only the administrator can add users"})
		return
	}

	var req addUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "username and password are required"})
		return
	}

	u, err := h.svc.AddUser(c.Request.Context(), service.NewUser{
		Username:   req.Username,
		Password:   req.Password,
		RealName:   req.RealName,
		Department: req.Department,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u})
}
