package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staybae/staybae-api/internal/api"
	"github.com/staybae/staybae-api/internal/server"
	"github.com/staybae/staybae-api/internal/storage/mongodb"
	"github.com/staybae/staybae-api/pkg/config"
	"github.com/staybae/staybae-api/pkg/logging"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	version    = "dev"
	buildTime  = "unknown"
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config(cfg.Logging))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting staybae API",
		zap.String("version", version),
		zap.String("build_time", buildTime),
		zap.String("env", cfg.Env),
	)

	gin.SetMode(logging.GinMode(cfg.Logging.Level))
	api.Version = version

	store := mongodb.NewStore(&cfg.Mongo, logger)
	controllers := []server.Controller{
		api.NewStatusController(store, logger),
	}

	app := server.New(cfg, controllers, cfg.Server.Port, store, logger)

	go func() {
		if err := app.Listen(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
