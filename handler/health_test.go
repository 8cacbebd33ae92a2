package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readyprobe/config"
	"readyprobe/health"
	"readyprobe/metrics"
	"readyprobe/middleware"
	"readyprobe/types"
	"readyprobe/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Probe: config.ProbeConfig{
			ServerNameKey:  "SERVER_NAME",
			ExpectedServer: "defaultServer",
			ResourceName:   "SystemResource",
			CheckTimeout:   time.Second,
		},
		RateLimit: config.RateLimitConfig{
			Enabled:         true,
			RequestsPerSec:  1,
			Burst:           1,
			Strategy:        "ip",
			CleanupInterval: time.Minute,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, provider health.Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New()
	registry := health.NewRegistry(health.WithObserver(m))
	require.NoError(t, registry.Register(health.Readiness,
		health.NewServerReadiness(provider, cfg.Probe.ServerNameKey)))
	require.NoError(t, registry.Register(health.Liveness, health.NewUptime(time.Now())))

	router, err := NewRouter(NewAPIHandler(registry, cfg), m, middleware.NewAPIKeyAuth(cfg.Auth))
	require.NoError(t, err)
	return router
}

func get(t *testing.T, router *gin.Engine, method, path string) (*httptest.ResponseRecorder, types.HealthResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var body types.HealthResponse
	if w.Body.Len() > 0 {
		require.NoError(t, utils.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func TestReadiness_DefaultServerIsUp(t *testing.T) {
	router := newTestServer(t, testConfig(), config.MapProvider{"SERVER_NAME": "defaultServer"})

	w, body := get(t, router, http.MethodGet, PathReadiness)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "UP", body.Status)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, types.CheckResponse{
		Name:   "SystemResourceReadiness",
		Status: "UP",
		Data:   map[string]string{"default server": "available"},
	}, body.Checks[0])
}

func TestReadiness_OtherServerIsDown(t *testing.T) {
	router := newTestServer(t, testConfig(), config.MapProvider{"SERVER_NAME": "otherServer"})

	w, body := get(t, router, http.MethodGet, PathReadiness)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DOWN", body.Status)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, map[string]string{"default server": "not available"}, body.Checks[0].Data)
}

func TestReadiness_MissingServerNameIsDown(t *testing.T) {
	router := newTestServer(t, testConfig(), config.MapProvider{})

	w, body := get(t, router, http.MethodGet, PathReadiness)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DOWN", body.Status)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, "SERVER_NAME is not set", body.Checks[0].Data["reason"])
}

func TestReadiness_NotRateLimited(t *testing.T) {
	router := newTestServer(t, testConfig(), config.MapProvider{"SERVER_NAME": "defaultServer"})

	for i := 0; i < 5; i++ {
		w, _ := get(t, router, http.MethodGet, PathReadiness)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestLiveness_UpEvenWhenNotReady(t *testing.T) {
	router := newTestServer(t, testConfig(), config.MapProvider{"SERVER_NAME": "otherServer"})

	w, body := get(t, router, http.MethodGet, PathLiveness)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UP", body.Status)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, "Uptime", body.Checks[0].Name)
}

func TestHealth_AggregatesAllChecks(t *testing.T) {
	router := newTestServer(t, testConfig(), config.MapProvider{"SERVER_NAME": "otherServer"})

	w, body := get(t, router, http.MethodGet, PathHealth)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DOWN", body.Status)
	assert.Len(t, body.Checks, 2)
}

func TestHealthHead(t *testing.T) {
	up := newTestServer(t, testConfig(), config.MapProvider{"SERVER_NAME": "defaultServer"})
	w, _ := get(t, up, http.MethodHead, PathHealth)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestServer(t, testConfig(), config.MapProvider{})
	w, _ = get(t, down, http.MethodHead, PathHealth)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth_RequiresAuthWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{"secret-key-1"}}
	cfg.RateLimit.Enabled = false
	router := newTestServer(t, cfg, config.MapProvider{"SERVER_NAME": "defaultServer"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, PathHealth, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// readiness stays open
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, PathReadiness, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, PathHealth, nil)
	req.Header.Set("Authorization", "Bearer secret-key-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint_ReportsCheckStatus(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	router := newTestServer(t, cfg, config.MapProvider{"SERVER_NAME": "defaultServer"})

	get(t, router, http.MethodGet, PathReadiness)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, PathMetrics, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `readyprobe_check_status{check="SystemResourceReadiness",kind="readiness"} 1`)
}

func TestHealth_RateLimitIgnoresForwardedHeadersFromUntrustedPeer(t *testing.T) {
	router := newTestServer(t, testConfig(), config.MapProvider{"SERVER_NAME": "defaultServer"})

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, PathHealth, nil)
		req.RemoteAddr = "192.0.2.50:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestHealth_RateLimitUsesForwardedHeaderFromTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Server.TrustedProxies = []string{"192.0.2.0/24"}
	router := newTestServer(t, cfg, config.MapProvider{"SERVER_NAME": "defaultServer"})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, PathHealth, nil)
		req.RemoteAddr = "192.0.2.50:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "client %d", i+1)
	}
}

func TestNewRouter_RejectsInvalidTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Server.TrustedProxies = []string{"not-an-ip"}

	_, err := NewRouter(NewAPIHandler(health.NewRegistry(), cfg), metrics.New(), middleware.NewAPIKeyAuth(cfg.Auth))
	assert.ErrorContains(t, err, "trusted proxies")
}
