package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusController serves liveness and readiness information.
type StatusController struct {
	db          Pinger
	logger      *zap.Logger
	pingTimeout time.Duration
}

// NewStatusController creates a status controller backed by db
func NewStatusController(db Pinger, logger *zap.Logger) *StatusController {
	return &StatusController{
		db:          db,
		logger:      logger,
		pingTimeout: 2 * time.Second,
	}
}

func (s *StatusController) Name() string { return "status" }

func (s *StatusController) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", s.Health)
	r.GET("/status", s.Status)
}

// Health always answers 200 while the process is serving; the body carries
// the database state.
func (s *StatusController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, s.check(c))
}

// Status answers 503 until the database is reachable.
func (s *StatusController) Status(c *gin.Context) {
	resp := s.check(c)
	code := http.StatusOK
	if resp.Status != StatusOK {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func (s *StatusController) check(c *gin.Context) StatusResponse {
	resp := StatusResponse{
		Status:   StatusOK,
		Service:  ServiceName,
		Database: DatabaseUp,
		Version:  Version,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.pingTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Debug("Database ping failed", zap.Error(err))
		resp.Status = StatusDegraded
		resp.Database = DatabaseDown
	}
	return resp
}
