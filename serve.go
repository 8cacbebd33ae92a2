package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"readyprobe/config"
	"readyprobe/handler"
	"readyprobe/health"
	"readyprobe/logger"
	"readyprobe/metrics"
	"readyprobe/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the health HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// buildRegistry registers the server readiness and uptime checks
func buildRegistry(cfg *config.Config, provider health.Provider, observer health.Observer, started time.Time) (*health.Registry, error) {
	registry := health.NewRegistry(health.WithObserver(observer))

	readiness := health.NewServerReadiness(provider, cfg.Probe.ServerNameKey,
		health.WithExpectedServer(cfg.Probe.ExpectedServer),
		health.WithResourceName(cfg.Probe.ResourceName),
	)
	if err := registry.Register(health.Readiness, readiness); err != nil {
		return nil, fmt.Errorf("register readiness check: %w", err)
	}
	if err := registry.Register(health.Liveness, health.NewUptime(started)); err != nil {
		return nil, fmt.Errorf("register liveness check: %w", err)
	}
	return registry, nil
}

// reloadAPIKeys re-reads the env files and swaps in the new API keys.
// An empty key list while auth is enabled is refused and the old keys stay.
func reloadAPIKeys(auth *middleware.APIKeyAuth) error {
	if err := config.ReloadEnvFiles(); err != nil {
		return err
	}

	cfg := config.Load()
	if cfg.Auth.Enabled && len(cfg.Auth.APIKeys) == 0 {
		return errors.New("auth enabled but API_KEYS is empty, keeping current keys")
	}
	auth.ReloadKeys(cfg.Auth.APIKeys)
	return nil
}

// watchReload reloads API keys on every SIGHUP until ctx is done.
func watchReload(ctx context.Context, auth *middleware.APIKeyAuth) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("SIGHUP received, reloading API keys")
			if err := reloadAPIKeys(auth); err != nil {
				logger.Error("API key reload failed | error=%v", err)
			}
		}
	}
}

func runServe(ctx context.Context) error {
	if err := config.LoadEnvFiles(); err != nil {
		return err
	}

	cfg := config.Load()
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Development); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("Starting readyprobe server")
	logger.Info("Configuration loaded | port=%s server_name_key=%s expected_server=%s check_timeout=%v auth=%v rate_limit=%v trusted_proxies=%v",
		cfg.Server.Port, cfg.Probe.ServerNameKey, cfg.Probe.ExpectedServer, cfg.Probe.CheckTimeout,
		cfg.Auth.Enabled, cfg.RateLimit.Enabled, cfg.Server.TrustedProxies)

	if !cfg.Logger.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	registry, err := buildRegistry(cfg, config.EnvProvider{}, m, time.Now())
	if err != nil {
		return err
	}

	auth := middleware.NewAPIKeyAuth(cfg.Auth)
	router, err := handler.NewRouter(handler.NewAPIHandler(registry, cfg), m, auth)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Probe.CheckTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go watchReload(ctx, auth)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening | addr=%s endpoints=%v", server.Addr,
			[]string{handler.PathReadiness, handler.PathLiveness, handler.PathHealth, handler.PathMetrics})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}
