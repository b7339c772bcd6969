package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flowsite-api/core/cache"
	"flowsite-api/core/config"
	"flowsite-api/core/constants"
	"flowsite-api/core/database"
	"flowsite-api/core/logger"
	"flowsite-api/core/middleware"
	"flowsite-api/core/queue"
	"flowsite-api/modules/contact"
	"flowsite-api/modules/notify"
	"flowsite-api/modules/scheduling"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires the application together and serves until SIGINT or SIGTERM.
//
// The scheduling endpoints are always on. Postgres, Redis and the
// notification worker attach only when their config is present, so a
// credentials-only deployment still serves bookings.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Server.Environment)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
	e.Use(requestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	var redisCache cache.Cache
	var queueClient *queue.Client
	var worker *notify.Worker
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Warn("Server:Run:Redis:Unavailable", "error", err)
		} else {
			redisCache = rc
			defer rc.Close()

			queueClient = queue.NewClient(cfg.Redis)
			defer queueClient.Close()

			worker = notify.NewWorker(cfg)
			go func() {
				if err := worker.Start(); err != nil {
					logger.Error("Server:Run:Worker:Error", "error", err)
				}
			}()
		}
	} else {
		logger.Info("Server:Run:Redis:Disabled")
	}

	scheduling.Init(e, cfg, redisCache)

	if cfg.Database.Enabled() {
		db, err := database.InitDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init database: %w", err)
		}
		defer db.Close()

		contact.Init(e, db, queueClient, middleware.NewMiddleware())
	} else {
		logger.Info("Server:Run:Database:Disabled", "note", "contact endpoints not registered")
	}

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Run:Listening", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Server:Run:Shutdown", "signal", sig.String())
	}

	if worker != nil {
		worker.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}

// requestLogger logs one line per request through the shared logger.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Microsecond).String(),
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
				logger.Warn("Request", fields...)
				return nil
			}
			logger.Info("Request", fields...)
			return nil
		},
	})
}
