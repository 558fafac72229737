package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staybae/staybae-api/pkg/middleware"
)

// Middleware stage names
const (
	StageLogging         = "logging"
	StageSecurityHeaders = "security-headers"
	StageCORS            = "cors"
	StageJSONBody        = "json-body"
	StageURLEncodedBody  = "urlencoded-body"
	StageCompression     = "compression"
)

// Middleware is one named stage of the request chain.
type Middleware struct {
	Name    string
	Handler gin.HandlerFunc
}

// DefaultMiddleware returns the request chain in installation order.
func DefaultMiddleware(logger *zap.Logger) []Middleware {
	return []Middleware{
		{Name: StageLogging, Handler: middleware.Logger(logger)},
		{Name: StageSecurityHeaders, Handler: middleware.SecurityHeaders()},
		{Name: StageCORS, Handler: middleware.CORS(middleware.AllowedOrigin)},
		{Name: StageJSONBody, Handler: middleware.JSONBody(middleware.DefaultBodyLimit)},
		{Name: StageURLEncodedBody, Handler: middleware.URLEncodedBody(middleware.DefaultBodyLimit)},
		{Name: StageCompression, Handler: middleware.Compression()},
	}
}
