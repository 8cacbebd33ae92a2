package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"readyprobe/health"
	"readyprobe/logger"
	"readyprobe/utils"
)

// HandleReadiness handles GET /health/ready
func (h *APIHandler) HandleReadiness(c *gin.Context) {
	h.serve(c, "readiness", h.registry.Readiness)
}

// HandleLiveness handles GET /health/live
func (h *APIHandler) HandleLiveness(c *gin.Context) {
	h.serve(c, "liveness", h.registry.Liveness)
}

// HandleHealth handles GET /health with every check
func (h *APIHandler) HandleHealth(c *gin.Context) {
	h.serve(c, "health", h.registry.Health)
}

// HandleHealthHead answers HEAD /health with the status code only
func (h *APIHandler) HandleHealthHead(c *gin.Context) {
	ctx, cancel := h.checkContext(c)
	defer cancel()

	if h.registry.Health(ctx).Status != health.StatusUp {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}

func (h *APIHandler) serve(c *gin.Context, endpoint string, run func(context.Context) health.Report) {
	ctx, cancel := h.checkContext(c)
	defer cancel()

	report := run(ctx)
	if report.Status != health.StatusUp {
		logger.Debug("Health endpoint reporting DOWN | endpoint=%s checks=%s", endpoint, utils.MarshalToString(report.Checks))
	}
	h.writeReport(c, report)
}

func (h *APIHandler) checkContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.config.Probe.CheckTimeout)
}
