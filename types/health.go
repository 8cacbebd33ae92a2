package types

import "readyprobe/health"

// HealthResponse is the JSON document served by the health endpoints.
type HealthResponse struct {
	Status string          `json:"status"`
	Checks []CheckResponse `json:"checks"`
}

// CheckResponse is one check inside a HealthResponse.
type CheckResponse struct {
	Name   string            `json:"name"`
	Status string            `json:"status"`
	Data   map[string]string `json:"data,omitempty"`
}

// IsUp reports whether the overall status is UP.
func (h *HealthResponse) IsUp() bool {
	return h.Status == string(health.StatusUp)
}

// NewHealthResponse converts a report into its wire form.
func NewHealthResponse(report health.Report) HealthResponse {
	checks := make([]CheckResponse, 0, len(report.Checks))
	for _, c := range report.Checks {
		checks = append(checks, CheckResponse{
			Name:   c.Name,
			Status: string(c.Status),
			Data:   c.Data,
		})
	}
	return HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	}
}
