// Package main boots the POS backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeshark-lucifer/pos-system/config"
	"github.com/codeshark-lucifer/pos-system/data"
	"github.com/codeshark-lucifer/pos-system/handler"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/middleware"
	"github.com/codeshark-lucifer/pos-system/net/resp"
	"github.com/codeshark-lucifer/pos-system/service"
)

// App represents the main application.
type App struct {
	config  *config.Config
	logger  *logger.Logger
	data    *data.Data
	service *service.Service
	handler *handler.Handler
	server  *http.Server
}

// NewApp creates a new application instance with manual dependency
// injection.
func NewApp(confPath string) (*App, func(), error) {
	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.StdLogger()

	dataLayer, err := data.New(cfg.Data.MongoDB, log)
	if err != nil {
		cleanupLogger()
		return nil, nil, fmt.Errorf("failed to create data layer: %w", err)
	}

	svc := service.NewService(dataLayer, cfg.Auth, log)
	h := handler.NewHandler(svc, log)

	app := &App{
		config:  cfg,
		logger:  log,
		data:    dataLayer,
		service: svc,
		handler: h,
	}

	cleanup := func() {
		if err := dataLayer.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
		cleanupLogger()
	}

	return app, cleanup, nil
}

// Run starts the application server and blocks until shutdown.
func (a *App) Run() error {
	if a.config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(a.loggerMiddleware())

	authn := middleware.Authenticate(a.service.Auth, a.logger)

	var loginLimiter []gin.HandlerFunc
	if lim := a.config.Auth.Limiter; lim.Enabled {
		loginLimiter = append(loginLimiter, middleware.NewRateLimiter(lim.RPS, lim.Burst, 15*time.Minute).Handler())
	}

	a.handler.RegisterRoutes(router, authn, loginLimiter...)

	router.GET("/health", func(c *gin.Context) {
		resp.Success(c.Writer, map[string]string{"status": "healthy"})
	})

	// Most settings (listen address, JWT secret) only take effect on
	// restart, so a change is surfaced in the log rather than applied.
	config.Watch(func(cfg *config.Config) {
		a.logger.Warn(context.Background(), "Configuration file changed, restart to apply")
	})

	addr := a.config.Addr()
	a.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(context.Background(), "Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info(context.Background(), "Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error(ctx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(context.Background(), "Server exited")
	return nil
}

// loggerMiddleware creates a gin middleware for request logging.
func (a *App) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		a.logger.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
			"request_id", middleware.GetRequestID(c),
		)
	}
}

func main() {
	confPath := flag.String("conf", "", "path to config file, e.g. ./config.yaml")
	flag.Parse()

	app, cleanup, err := NewApp(*confPath)
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		fmt.Printf("Failed to run app: %v\n", err)
		os.Exit(1)
	}
}
