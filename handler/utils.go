package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"readyprobe/health"
	"readyprobe/types"
	"readyprobe/utils"
)

// writeJSON writes data encoded with json-iterator
func (h *APIHandler) writeJSON(c *gin.Context, status int, data any) {
	c.Data(status, "application/json", utils.MarshalToBytes(data))
}

// writeReport maps UP to 200 and DOWN to 503
func (h *APIHandler) writeReport(c *gin.Context, report health.Report) {
	status := http.StatusOK
	if report.Status != health.StatusUp {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(c, status, types.NewHealthResponse(report))
}
