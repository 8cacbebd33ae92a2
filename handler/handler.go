package handler

import (
	"readyprobe/config"
	"readyprobe/health"
)

// Health endpoint paths
const (
	PathHealth    = "/health"
	PathReadiness = "/health/ready"
	PathLiveness  = "/health/live"
	PathMetrics   = "/metrics"
)

// ProbePaths are polled by orchestrators and skip rate limiting and auth
var ProbePaths = []string{PathReadiness, PathLiveness}

// APIHandler serves the health endpoints
type APIHandler struct {
	registry *health.Registry
	config   *config.Config
}

// NewAPIHandler creates the health API handler
func NewAPIHandler(registry *health.Registry, cfg *config.Config) *APIHandler {
	return &APIHandler{
		registry: registry,
		config:   cfg,
	}
}
