package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readyprobe/config"
	"readyprobe/handler"
	"readyprobe/health"
	"readyprobe/metrics"
	"readyprobe/middleware"
)

func newServer(t *testing.T, provider health.Provider) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Probe: config.ProbeConfig{ServerNameKey: "SERVER_NAME", CheckTimeout: time.Second}}
	m := metrics.New()
	registry := health.NewRegistry(health.WithObserver(m))
	require.NoError(t, registry.Register(health.Readiness, health.NewServerReadiness(provider, "SERVER_NAME")))
	require.NoError(t, registry.Register(health.Liveness, health.NewUptime(time.Now())))

	router, err := handler.NewRouter(handler.NewAPIHandler(registry, cfg), m, middleware.NewAPIKeyAuth(cfg.Auth))
	require.NoError(t, err)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_Ready(t *testing.T) {
	tests := []struct {
		name     string
		provider config.MapProvider
		wantUp   bool
	}{
		{"default server", config.MapProvider{"SERVER_NAME": "defaultServer"}, true},
		{"other server", config.MapProvider{"SERVER_NAME": "otherServer"}, false},
		{"missing", config.MapProvider{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newServer(t, tt.provider)
			c := New(ts.URL, time.Second)

			report, err := c.Ready(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantUp, report.IsUp())
			require.Len(t, report.Checks, 1)
			assert.Equal(t, "SystemResourceReadiness", report.Checks[0].Name)
		})
	}
}

func TestClient_LiveAndHealth(t *testing.T) {
	ts := newServer(t, config.MapProvider{"SERVER_NAME": "otherServer"})
	c := New(ts.URL, time.Second)

	live, err := c.Live(context.Background())
	require.NoError(t, err)
	assert.True(t, live.IsUp())

	all, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, all.IsUp())
	assert.Len(t, all.Checks, 2)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).Ready(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestClient_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, 500*time.Millisecond).Ready(context.Background())
	assert.Error(t, err)
}
