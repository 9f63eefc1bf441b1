package models

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"` // "healthy" or "degraded"
	Uptime   string `json:"uptime"`
	Enhancer string `json:"enhancer"` // provider name, or "disabled"
	Version  string `json:"version"`
}
