package domain

import (
	"errors"
	"time"
)

// User is an operator account. Password holds the bcrypt hash and
// never leaves the server.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	RealName   string    `json:"realname"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_date"`
}

// Session is the server-side login state referenced by the cookie.
type Session struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	RealName   string `json:"realname"`
	Department string `json:"department"`
}

// AdminUsername is the only account allowed to create users.
const AdminUsername = "admin"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
	ErrSessionNotFound    = errors.New("session not found or expired")
)
