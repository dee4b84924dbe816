package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/hlzx-oa/project-registry/internal/auth/domain"
)

// Users is what the service needs from the account store.
type Users interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (int64, error)
}

// Sessions is the server-side session store.
type Sessions interface {
	Create(ctx context.Context, sess domain.Session) (string, error)
	Delete(ctx context.Context, sid string) error
}

// AuthService verifies credentials and manages sessions. Failed-login
// throttling is per username: 5 attempts, refilling one every 12s.
type AuthService struct {
	users    Users
	sessions Sessions
	log      *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewAuthService(users Users, sessions Sessions, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		log:      log,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Login checks the password against the stored bcrypt hash and mints a
// session. Unknown usernames and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	if !s.limiter(username).Allow() {
		s.log.Warn("login throttled", zap.String("username", username))
		return "", nil, domain.ErrTooManyAttempts
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.log.Info("failed login", zap.String("username", username))
		return "", nil, domain.ErrInvalidCredentials
	}

	sess := domain.Session{
		UserID:     u.ID,
		Username:   u.Username,
		RealName:   u.RealName,
		Department: u.Department,
	}
	sid, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return "", nil, fmt.Errorf("creating session: %w", err)
	}

	s.log.Info("login", zap.String("username", username))
	return sid, &sess, nil
}

// Logout drops the session.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.sessions.Delete(ctx, sid)
}

// NewUser is the admin's user-creation form.
type NewUser struct {
	Username   string
	Password   string
	RealName   string
	Department string
}

// AddUser hashes the password and stores the account. The admin-only
// restriction is enforced by the HTTP layer.
func (s *AuthService) AddUser(ctx context.Context, in NewUser) (*domain.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Username:   in.Username,
		Password:   string(hash),
		RealName:   in.RealName,
		Department: in.Department,
	}
	if _, err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("username", u.Username))
	return u, nil
}

func (s *AuthService) limiter(username string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[username]
	if !ok {
		l = rate.NewLimiter(rate.Limit(1.0/12.0), 5)
		s.limiters[username] = l
	}
	return l
}
