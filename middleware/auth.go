package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"readyprobe/config"
	"readyprobe/logger"
	"readyprobe/types"
)

// APIKeyAuth handles Bearer token authentication
type APIKeyAuth struct {
	validKeys map[string]struct{}
	mu        sync.RWMutex
	enabled   bool
	exempt    map[string]struct{}
}

// NewAPIKeyAuth creates a new API key authentication middleware
func NewAPIKeyAuth(cfg config.AuthConfig) *APIKeyAuth {
	auth := &APIKeyAuth{
		validKeys: make(map[string]struct{}, len(cfg.APIKeys)),
		enabled:   cfg.Enabled,
		exempt:    make(map[string]struct{}),
	}

	for _, key := range cfg.APIKeys {
		if key != "" {
			auth.validKeys[key] = struct{}{}
		}
	}

	logger.Info("API key authentication middleware initialized | key_count=%d enabled=%v", len(auth.validKeys), cfg.Enabled)

	return auth
}

// Exempt lets paths through without credentials
func (a *APIKeyAuth) Exempt(paths ...string) *APIKeyAuth {
	for _, p := range paths {
		a.exempt[p] = struct{}{}
	}
	return a
}

// Middleware returns the authentication middleware handler
func (a *APIKeyAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled {
			c.Next()
			return
		}

		if _, ok := a.exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			a.respondUnauthorized(c, "missing_api_key", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			a.respondUnauthorized(c, "invalid_format", "Authorization header must be 'Bearer <API_KEY>'")
			return
		}

		apiKey := parts[1]
		if !a.validateKey(apiKey) {
			logger.Warn("Invalid API key attempt | masked_key=%s client_ip=%s path=%s method=%s",
				maskAPIKey(apiKey), c.ClientIP(), c.Request.URL.Path, c.Request.Method)
			a.respondUnauthorized(c, "invalid_api_key", "Invalid API key provided")
			return
		}

		logger.Debug("API key authentication successful | masked_key=%s client_ip=%s path=%s",
			maskAPIKey(apiKey), c.ClientIP(), c.Request.URL.Path)

		c.Next()
	}
}

// validateKey checks the key using constant-time comparison
func (a *APIKeyAuth) validateKey(key string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for validKey := range a.validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) == 1 {
			return true
		}
	}
	return false
}

// ReloadKeys replaces the valid API keys
func (a *APIKeyAuth) ReloadKeys(newKeys []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.validKeys = make(map[string]struct{}, len(newKeys))
	for _, key := range newKeys {
		if key != "" {
			a.validKeys[key] = struct{}{}
		}
	}

	logger.Info("API keys reloaded successfully | key_count=%d", len(a.validKeys))
}

func (a *APIKeyAuth) respondUnauthorized(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	writeError(c, http.StatusUnauthorized, types.NewError(message, "invalid_request_error", code))
}

// maskAPIKey masks the API key for logging (shows only first 8 characters)
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "****"
}
