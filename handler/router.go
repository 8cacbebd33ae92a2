package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"readyprobe/metrics"
	"readyprobe/middleware"
)

// NewRouter wires middleware and routes.
// Order: Recovery -> RequestLogger -> CORS -> Metrics -> RateLimit -> Auth -> handler
//
// auth is passed in so the caller can reload its keys at runtime.
// Client IPs come from X-Forwarded-For only when the peer is one of
// Server.TrustedProxies; with none configured the socket address is used.
func NewRouter(h *APIHandler, m *metrics.Metrics, auth *middleware.APIKeyAuth) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(h.config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(m.Middleware())
	router.Use(middleware.NewRateLimiter(h.config.RateLimit).Exempt(ProbePaths...).Middleware())
	router.Use(auth.Exempt(ProbePaths...).Middleware())

	router.GET(PathReadiness, h.HandleReadiness)
	router.GET(PathLiveness, h.HandleLiveness)
	router.GET(PathHealth, h.HandleHealth)
	router.HEAD(PathHealth, h.HandleHealthHead)
	router.GET(PathMetrics, gin.WrapH(m.Handler()))

	return router, nil
}
