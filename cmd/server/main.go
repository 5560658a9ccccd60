package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleet-dashboard/internal/config"
	"fleet-dashboard/internal/handler"
	"fleet-dashboard/internal/pkg/fleet"
	"fleet-dashboard/internal/pkg/logger"
	"fleet-dashboard/internal/router"
	"fleet-dashboard/internal/service"
)

func main() {
	dotEnvErr := config.LoadDotEnv()

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	appLogger, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	if dotEnvErr != nil {
		appLogger.Debug("no .env file loaded, using environment and defaults")
	}

	client, err := newFleetClient(cfg.Fleet)
	if err != nil {
		appLogger.Fatal("failed to create fleet client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	panel := service.NewFleetPanel(client, cfg.Fleet.PollInterval(), appLogger.Named("panel"))
	if err := panel.Activate(ctx); err != nil {
		appLogger.Fatal("failed to start polling", zap.Error(err))
	}
	defer panel.Deactivate()

	fleetHandler := handler.NewFleetHandler(panel, appLogger.Named("http"))
	pageHandler := handler.NewPageHandler(panel, "DAQ control nodes", cfg.Fleet.PollInterval())
	hub := handler.NewHub(panel, cfg.Server.CORSOrigins, appLogger.Named("ws"))
	go hub.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", handler.CSRFHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	router.RegisterRoutes(r, fleetHandler, pageHandler, hub)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		appLogger.Info("server starting",
			zap.String("address", srv.Addr),
			zap.String("fleet", cfg.Fleet.BaseURL),
			zap.Duration("poll", cfg.Fleet.PollInterval()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
}

// newFleetClient builds a client for the configured fleet API. A configured
// token wins over the session cookie.
func newFleetClient(cfg config.FleetConfig) (*fleet.Client, error) {
	return fleet.NewClient(fleet.ClientConfig{
		BaseURL:     cfg.BaseURL,
		NodesPath:   cfg.NodesPath,
		OverallPath: cfg.OverallPath,
		RoutersPath: cfg.RoutersPath,
		LogsPath:    cfg.LogsPath,
		Timeout:     cfg.Timeout(),
		CSRFHeader:  cfg.CSRFHeader,
		Tokens:      fleet.StaticToken(cfg.CSRFToken),
		CSRFCookie:  cfg.CSRFCookie,
	})
}
