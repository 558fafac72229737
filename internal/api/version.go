// Package api provides the HTTP controllers built into the API server.
package api

// ServiceName identifies this service in status responses.
const ServiceName = "staybae-api"

// Version is the build version, set by cmd/server from its ldflags.
var Version = "dev"

// Service states reported by the status endpoints
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	DatabaseUp   = "up"
	DatabaseDown = "down"
)

// StatusResponse is the response from the /health and /status endpoints.
type StatusResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
