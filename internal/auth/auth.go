package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"mailreply/internal/config"
	"mailreply/internal/models"

	"github.com/labstack/echo/v4"
)

// ErrInvalidCredentials is returned for a wrong username or password
var ErrInvalidCredentials = errors.New("invalid credentials")

// Manager issues and checks admin tokens for the thread browsing routes
type Manager struct {
	username    string
	password    string
	tokens      map[string]time.Time
	mu          sync.Mutex
	tokenExpiry time.Duration
	now         func() time.Time
}

// NewManager creates a new authentication manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		username:    cfg.AdminUsername,
		password:    cfg.AdminPassword,
		tokens:      make(map[string]time.Time),
		tokenExpiry: 24 * time.Hour,
		now:         time.Now,
	}
}

// Enabled reports whether an admin password is configured
func (am *Manager) Enabled() bool {
	return am.password != ""
}

// Authenticate validates username and password and returns a token
func (am *Manager) Authenticate(username, password string) (string, error) {
	if !am.Enabled() {
		return "", fmt.Errorf("admin login disabled: ADMIN_PASSWORD not set")
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(am.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(am.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	am.mu.Lock()
	defer am.mu.Unlock()
	now := am.now()
	for t, expiry := range am.tokens {
		if now.After(expiry) {
			delete(am.tokens, t)
		}
	}
	am.tokens[token] = now.Add(am.tokenExpiry)

	return token, nil
}

// ValidateToken checks if a token is valid
func (am *Manager) ValidateToken(token string) bool {
	am.mu.Lock()
	defer am.mu.Unlock()

	expiry, exists := am.tokens[token]
	if !exists {
		return false
	}
	if am.now().After(expiry) {
		delete(am.tokens, token)
		return false
	}
	return true
}

// Middleware protects admin routes. With no admin password configured every
// request passes.
func Middleware(authManager *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !authManager.Enabled() {
				return next(c)
			}

			// Authorization header first, then query parameter
			token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
			if token == "" {
				token = c.QueryParam("token")
			}

			if token == "" || !authManager.ValidateToken(token) {
				msg := "Unauthorized. Please login first."
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: msg, Detail: msg})
			}

			c.Set("auth_token", token)
			return next(c)
		}
	}
}
