package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staybae/staybae-api/internal/storage"
	"github.com/staybae/staybae-api/internal/storage/mongodb"
	"github.com/staybae/staybae-api/pkg/config"
	"github.com/staybae/staybae-api/pkg/middleware"
)

// APIPrefix is the path every controller is mounted under
const APIPrefix = "/api"

// Stage is a construction step of App
type Stage string

const (
	StageDatabase      Stage = "database"
	StageMiddleware    Stage = "middleware"
	StageControllers   Stage = "controllers"
	StageErrorHandling Stage = "error-handling"
)

// Option customises an App before its stages run
type Option func(*App)

// WithMiddleware replaces the default middleware chain
func WithMiddleware(mw []Middleware) Option {
	return func(a *App) {
		a.middleware = mw
	}
}

// WithErrorHandler replaces the default error renderer
func WithErrorHandler(h middleware.ErrorHandler) Option {
	return func(a *App) {
		a.customErrorHandler = h
	}
}

// App owns the HTTP engine and the database connection for the process lifetime
type App struct {
	cfg    *config.Config
	port   int
	logger *zap.Logger
	db     storage.Database

	engine             *gin.Engine
	middleware         []Middleware
	customErrorHandler middleware.ErrorHandler
	errorHandler       middleware.ErrorHandler
	stages             []Stage

	// connectCtx bounds the background connection attempt
	connectCtx    context.Context
	cancelConnect context.CancelFunc
	connectDone   chan struct{}

	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

// New builds the application: starts the database connection, installs the
// middleware chain, mounts controllers under /api and installs the error
// handler, in that order. It never blocks on the database.
func New(cfg *config.Config, controllers []Controller, port int, db storage.Database, logger *zap.Logger, opts ...Option) *App {
	a := &App{
		cfg:         cfg,
		port:        port,
		logger:      logger,
		db:          db,
		engine:      gin.New(),
		connectDone: make(chan struct{}),
	}
	a.middleware = DefaultMiddleware(logger)
	for _, opt := range opts {
		opt(a)
	}

	a.initialiseDatabaseConnection()
	a.initialiseMiddleware()
	a.initialiseControllers(controllers)
	a.initialiseErrorHandling()

	return a
}

func (a *App) initialiseDatabaseConnection() {
	a.connectCtx, a.cancelConnect = context.WithCancel(context.Background())
	uri := mongodb.ConnectionURI(a.cfg.Env, a.cfg.Mongo)

	a.logger.Info("Connecting to database", zap.String("scheme", mongodb.Scheme(a.cfg.Env)))
	go func() {
		defer close(a.connectDone)
		if err := a.db.Connect(a.connectCtx, uri); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			a.logger.Error("Database connection failed", zap.Error(err))
		}
	}()

	a.stages = append(a.stages, StageDatabase)
}

func (a *App) initialiseMiddleware() {
	boundary := middleware.ErrorBoundary(a.currentErrorHandler)

	for i, m := range a.middleware {
		a.engine.Use(m.Handler)
		// Errors are rendered inside the first stage (request logging) so
		// it records the final status.
		if i == 0 {
			a.engine.Use(boundary)
		}
	}
	// Errors raised by controllers are rendered inside compression.
	a.engine.Use(boundary)

	a.stages = append(a.stages, StageMiddleware)
}

func (a *App) initialiseControllers(controllers []Controller) {
	api := a.engine.Group(APIPrefix)
	for _, c := range controllers {
		a.logger.Debug("Mounting controller",
			zap.String("name", c.Name()),
			zap.String("prefix", APIPrefix))
		c.RegisterRoutes(api)
	}

	a.stages = append(a.stages, StageControllers)
}

func (a *App) initialiseErrorHandling() {
	if a.customErrorHandler != nil {
		a.errorHandler = a.customErrorHandler
	} else {
		a.errorHandler = middleware.DefaultErrorHandler(a.logger)
	}

	a.engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(middleware.NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path)))
	})

	a.stages = append(a.stages, StageErrorHandling)
}

func (a *App) currentErrorHandler() middleware.ErrorHandler {
	return a.errorHandler
}

// Listen binds the configured port and serves until Shutdown. The readiness
// line is logged only once the port is bound.
func (a *App) Listen() error {
	bind := a.cfg.Server
	bind.Port = a.port
	ln, err := net.Listen("tcp", bind.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.port, err)
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		_ = ln.Close()
		return nil
	}
	a.httpServer = &http.Server{
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	srv := a.httpServer
	a.mu.Unlock()

	a.logger.Info(fmt.Sprintf("Server listening on port %d", a.port), zap.Int("port", a.port))

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, abandons a
// pending database connection attempt and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	a.mu.Lock()
	a.closed = true
	srv := a.httpServer
	a.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	a.cancelConnect()
	select {
	case <-a.connectDone:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("database connect: %w", ctx.Err()))
	}

	if err := a.db.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}

	return errors.Join(errs...)
}

// Handler returns the HTTP handler serving the application
func (a *App) Handler() http.Handler {
	return a.engine
}

// Stages returns the construction stages in the order they ran
func (a *App) Stages() []Stage {
	return append([]Stage(nil), a.stages...)
}

// MiddlewareNames returns the middleware stage names in installation order
func (a *App) MiddlewareNames() []string {
	names := make([]string, 0, len(a.middleware))
	for _, m := range a.middleware {
		names = append(names, m.Name)
	}
	return names
}
